package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/playbook3d/render-bridge/internal/cli"
)

var validateKeyFlag string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether an API key is accepted, without printing account details",
	Long: `validate exchanges the key for a session token and reports the outcome
as a yes/no answer. The process exits 0 for a valid key and 1 otherwise,
so it can gate scripts.`,
	Run: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateKeyFlag, "api-key", "k", "", "API key (defaults to PLAYBOOK_API_KEY, then an interactive prompt)")
}

func runValidate(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg, _, client := cli.Bootstrap(ctx)

	key := validateKeyFlag
	if key == "" {
		key = cfg.APIKey
	}
	if key == "" {
		key = cli.PromptForAPIKey()
	}

	if client.Validate(ctx, key) {
		fmt.Println("API key is valid")
		return
	}
	fmt.Println("API key is invalid")
	os.Exit(1)
}
