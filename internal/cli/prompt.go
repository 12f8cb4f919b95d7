package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// PromptForAPIKey prompts the user interactively for their API key.
// Returns an empty string if the user enters nothing; callers fall back
// to the configured key before prompting, so an empty answer means no
// key at all and fails the format check downstream.
func PromptForAPIKey() string {
	fmt.Print("API key: ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read input")
		return ""
	}

	return strings.TrimSpace(input)
}
