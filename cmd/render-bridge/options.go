package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/playbook3d/render-bridge/internal/uistate"
	"github.com/playbook3d/render-bridge/internal/workflow"
)

// menus caches the dropdown contents the web editor exposes. The CLI
// serves them from the same cache the host UI would redraw from.
var menus = buildMenus()

func buildMenus() *uistate.Cache {
	c := uistate.NewCache()
	c.Register("workflows", func(ctx context.Context) ([]string, error) {
		return []string{workflow.Retexture.String(), workflow.StyleTransfer.String()}, nil
	})
	c.Register("models", func(ctx context.Context) ([]string, error) {
		return []string{workflow.Stable.String(), workflow.Flux.String()}, nil
	})
	for model, styles := range workflow.StylesForModel {
		c.Register("styles:"+model.String(), func(ctx context.Context) ([]string, error) {
			out := make([]string, len(styles))
			for i, s := range styles {
				out[i] = s.String()
			}
			return out, nil
		})
	}
	return c
}

// menuHint summarizes the valid workflow and model choices for error
// messages.
func menuHint() string {
	menus.RefreshAll(context.Background())
	workflows, _ := menus.Get("workflows")
	models, _ := menus.Get("models")
	return fmt.Sprintf("Unknown selection. Workflows: %s. Models: %s",
		strings.Join(workflows, ", "), strings.Join(models, ", "))
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the pipelines, base models, and styles the service offers",
	Run:   runOptions,
}

func runOptions(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	menus.RefreshAll(ctx)

	workflows, _ := menus.Get("workflows")
	fmt.Println("Workflows:")
	for _, w := range workflows {
		fmt.Printf("  %s\n", w)
	}

	fmt.Println("Base models:")
	models, _ := menus.Get("models")
	for _, name := range models {
		m, err := workflow.ParseBaseModel(name)
		if err != nil {
			continue
		}
		line := "  " + name
		if stats, ok := workflow.StatsFor(m); ok {
			line += fmt.Sprintf(" (%s, %s, %s credits)", stats.Resolution, stats.Time, stats.Credits)
		}
		fmt.Println(line)

		if styles, ok := menus.Get("styles:" + name); ok {
			fmt.Printf("    styles: %s\n", strings.Join(styles, ", "))
		}
	}
}
