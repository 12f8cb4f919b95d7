package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the main Cobra command for the bridge CLI.
var rootCmd = &cobra.Command{
	Use:   "render-bridge",
	Short: "Submit scene render passes to the Playbook3D render service",
	Long: `render-bridge drives a generative render from the command line: it
authenticates with your API key, uploads the scene's render passes, submits
the job to the selected pipeline, and waits for the result image URL.

Examples:
  render-bridge render -w retexture -m stable -s photoreal -p "a cozy cabin" \
      --pass mask=mask.png --pass depth=depth.png --pass outline=outline.png
  render-bridge render -w styletransfer --strength 75 --poll \
      --pass beauty=beauty.png --pass depth=depth.png \
      --pass outline=outline.png --pass style_transfer_image=ref.png
  render-bridge account
  render-bridge validate
  render-bridge options`,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(optionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
