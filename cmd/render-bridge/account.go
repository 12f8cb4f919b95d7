package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playbook3d/render-bridge/internal/cli"
)

var accountKeyFlag string

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Authenticate and show the account's email and credit balance",
	Run:   runAccount,
}

func init() {
	accountCmd.Flags().StringVarP(&accountKeyFlag, "api-key", "k", "", "API key (defaults to PLAYBOOK_API_KEY, then an interactive prompt)")
}

func runAccount(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg, tokens, client := cli.Bootstrap(ctx)

	key := accountKeyFlag
	if key == "" {
		key = cfg.APIKey
	}
	if key == "" {
		key = cli.PromptForAPIKey()
	}

	profile, err := client.Authenticate(ctx, key)
	if err != nil {
		cli.HandleAuthError(err)
	}

	fmt.Printf("Email:   %s\n", profile.Email)
	fmt.Printf("Credits: %g\n", profile.Credits)
	if tok := tokens.Current(); tok != nil && !tok.ExpiresAt.IsZero() {
		fmt.Printf("Session: %s until %s\n", tok.Username, tok.ExpiresAt.Format("2006-01-02 15:04 MST"))
	}
}
