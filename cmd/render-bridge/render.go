package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/playbook3d/render-bridge/internal/assets"
	"github.com/playbook3d/render-bridge/internal/auth"
	"github.com/playbook3d/render-bridge/internal/cli"
	"github.com/playbook3d/render-bridge/internal/config"
	"github.com/playbook3d/render-bridge/internal/render"
	"github.com/playbook3d/render-bridge/internal/result"
	"github.com/playbook3d/render-bridge/internal/workflow"
)

// render flags
var (
	workflowFlag    string
	modelFlag       string
	styleFlag       string
	promptFlag      string
	maskPromptsFlag []string
	strengthFlag    float64
	passFlags       []string
	teamFlag        string
	apiKeyFlag      string
	pollFlag        bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Upload render passes, submit a job, and wait for the result",
	Run:   runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&workflowFlag, "workflow", "w", "retexture", "Pipeline: retexture or styletransfer")
	renderCmd.Flags().StringVarP(&modelFlag, "model", "m", "stable", "Base model: stable or flux")
	renderCmd.Flags().StringVarP(&styleFlag, "style", "s", "photoreal", "Style: photoreal, 3dcartoon, or anime")
	renderCmd.Flags().StringVarP(&promptFlag, "prompt", "p", "", "Scene prompt")
	renderCmd.Flags().StringArrayVar(&maskPromptsFlag, "mask-prompt", nil, "Mask prompt for the next mask slot (repeatable, up to 7)")
	renderCmd.Flags().Float64Var(&strengthFlag, "strength", 50, "Structure/style strength slider (0-100)")
	renderCmd.Flags().StringArrayVar(&passFlags, "pass", nil, "Render pass as name=path.png (repeatable); missing passes open a file picker")
	renderCmd.Flags().StringVarP(&teamFlag, "team", "t", "", "Team the render bills against (defaults to PLAYBOOK_TEAM_ID)")
	renderCmd.Flags().StringVarP(&apiKeyFlag, "api-key", "k", "", "API key (defaults to PLAYBOOK_API_KEY, then an interactive prompt)")
	renderCmd.Flags().BoolVar(&pollFlag, "poll", false, "Poll for the result instead of listening on the message stream")
}

// runRender is the main execution logic called by Cobra.
func runRender(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg, tokens, client := cli.Bootstrap(ctx)

	sel, err := parseSelection()
	if err != nil {
		log.Fatal().Err(err).Msg(menuHint())
	}

	masks, ok := workflow.PadMaskPrompts(maskPromptsFlag)
	if !ok {
		log.Fatal().Int("given", len(maskPromptsFlag)).Int("max", workflow.NumMasks).Msg("Too many mask prompts")
	}

	prompt := promptFlag
	if prompt == workflow.ScenePromptPlaceholder {
		prompt = ""
	}

	if _, err := client.Authenticate(ctx, resolveAPIKey(cfg)); err != nil {
		cli.HandleAuthError(err)
	}

	id := sel.Encode()
	category, err := workflow.CategoryOf(id)
	if err != nil {
		log.Fatal().Err(err).Msg("Selection encodes to an unknown pipeline")
	}

	passes := gatherPasses(requiredPasses(category))

	team := teamFlag
	if team == "" {
		team = cfg.TeamID
	}

	uploader := assets.NewUploader(cfg, tokens)
	uploaded, err := uploader.Upload(ctx, assets.UploadRequest{
		Team:     team,
		Workflow: category.String(),
		Passes:   passes,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Pass upload failed")
	}
	log.Info().Int("uploaded", len(uploaded)).Int("total", len(passes)).Msg("Passes uploaded")

	submitter := render.NewSubmitter(cfg)
	handle, err := submitter.Submit(ctx, &render.Job{
		WorkflowID:        id,
		ScenePrompt:       prompt,
		StructureStrength: strengthFlag,
		StyleStrength:     strengthFlag,
		MaskPrompts:       masks,
		Passes:            passes,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Job submission failed")
	}
	log.Info().Str("runId", handle.RunID).Msg("Job submitted, waiting for result")

	res, err := awaitResult(ctx, cfg, tokens, handle)
	if err != nil {
		log.Fatal().Err(err).Msg("Result wait failed")
	}

	fmt.Println()
	fmt.Println("============================================")
	fmt.Println("🎨 Render complete")
	fmt.Println("============================================")
	fmt.Printf("Pipeline: %s (workflow id %d)\n", category, int(id))
	fmt.Printf("Elapsed:  %s\n", cli.FormatDurationShort(time.Since(handle.SubmittedAt)))
	fmt.Printf("Result:   %s\n", res.ImageURL)
}

// parseSelection resolves the workflow/model/style flags into a pipeline
// selection.
func parseSelection() (workflow.Selection, error) {
	var sel workflow.Selection
	w, err := workflow.ParseWorkflow(workflowFlag)
	if err != nil {
		return sel, err
	}
	m, err := workflow.ParseBaseModel(modelFlag)
	if err != nil {
		return sel, err
	}
	s, err := workflow.ParseStyle(styleFlag)
	if err != nil {
		return sel, err
	}
	return workflow.Selection{Workflow: w, BaseModel: m, Style: s}, nil
}

// requiredPasses lists the file parts the selected pipeline needs.
func requiredPasses(category workflow.Workflow) []string {
	if category == workflow.StyleTransfer {
		return []string{render.PassBeauty, render.PassDepth, render.PassOutline, render.PassStyleTransfer}
	}
	return []string{render.PassMask, render.PassDepth, render.PassOutline}
}

// resolveAPIKey returns the key from the flag, the configuration, or an
// interactive prompt, in that order.
func resolveAPIKey(cfg *config.Config) string {
	if apiKeyFlag != "" {
		return apiKeyFlag
	}
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	return cli.PromptForAPIKey()
}

// awaitResult waits on the message stream, or polls when --poll is set.
func awaitResult(ctx context.Context, cfg *config.Config, tokens *auth.TokenStore, handle *render.Handle) (*result.RenderResult, error) {
	if pollFlag {
		artifact := fmt.Sprintf("results/%s.png", handle.RunID)
		return result.NewPoller(cfg, tokens).Await(ctx, artifact)
	}
	return result.NewListener(cfg).Await(ctx)
}
