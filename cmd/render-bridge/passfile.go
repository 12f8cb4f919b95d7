package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/playbook3d/render-bridge/internal/cli"
)

// The backend renders at 768x768; other pass sizes are accepted but get
// rescaled server-side.
const expectedPassSize = 768

// gatherPasses resolves every required pass to file bytes: --pass flags
// first, a native file picker for the rest. Exits fatally when a pass
// cannot be read or the user cancels a picker.
func gatherPasses(required []string) map[string][]byte {
	paths := make(map[string]string, len(passFlags))
	for _, spec := range passFlags {
		name, path, ok := strings.Cut(spec, "=")
		if !ok || name == "" || path == "" {
			log.Fatal().Str("flag", spec).Msg("Pass flags take the form name=path.png")
		}
		paths[name] = path
	}

	passes := make(map[string][]byte, len(required))
	for _, name := range required {
		path, ok := paths[name]
		if !ok {
			path = pickPass(name)
		}
		data, err := loadPass(name, path)
		if err != nil {
			log.Fatal().Err(err).Str("pass", name).Str("path", path).Msg("Failed to load render pass")
		}
		passes[name] = data
	}
	return passes
}

// pickPass opens a file picker for one pass. Cancelling aborts the render.
func pickPass(name string) string {
	path, picked, err := cli.SelectPassFile(fmt.Sprintf("Select the %s pass", name))
	if err != nil {
		log.Fatal().Err(err).Str("pass", name).Msg("File picker failed")
	}
	if !picked {
		log.Fatal().Str("pass", name).Msg("Render cancelled: no file selected")
	}
	return path
}

// loadPass reads a pass file and sanity-checks that it is a PNG. A
// non-768 canvas is only warned about.
func loadPass(name, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a readable PNG: %w", err)
	}
	if info.Width != expectedPassSize || info.Height != expectedPassSize {
		log.Warn().
			Str("pass", name).
			Int("width", info.Width).
			Int("height", info.Height).
			Msgf("Pass is not %dx%d; the backend will rescale it", expectedPassSize, expectedPassSize)
	}

	return data, nil
}
