// Package workflow maps UI-level render selections onto the numeric
// identifiers and parameter ranges the Playbook backend expects.
//
// The backend addresses each generative pipeline variant with a single
// integer workflow id encoding (workflow, base model, style). The host
// UI exposes those three choices as dropdowns and exposes strengths as
// 0-100 sliders; everything in this package is the pure translation
// between the two vocabularies, with no I/O.
package workflow

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Workflow is the backend's named generative pipeline.
type Workflow int

const (
	Retexture Workflow = iota
	StyleTransfer
)

// BaseModel is the underlying generative model family.
type BaseModel int

const (
	Stable BaseModel = iota
	Flux
)

// Style is a visual preset applied within a base model.
type Style int

const (
	Photoreal Style = iota
	Cartoon3D
	Anime
)

func (w Workflow) String() string {
	switch w {
	case Retexture:
		return "RETEXTURE"
	case StyleTransfer:
		return "STYLETRANSFER"
	}
	return fmt.Sprintf("Workflow(%d)", int(w))
}

func (m BaseModel) String() string {
	switch m {
	case Stable:
		return "STABLE"
	case Flux:
		return "FLUX"
	}
	return fmt.Sprintf("BaseModel(%d)", int(m))
}

func (s Style) String() string {
	switch s {
	case Photoreal:
		return "PHOTOREAL"
	case Cartoon3D:
		return "3DCARTOON"
	case Anime:
		return "ANIME"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseWorkflow converts a menu value (e.g. "RETEXTURE") to a Workflow.
func ParseWorkflow(s string) (Workflow, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RETEXTURE":
		return Retexture, nil
	case "STYLETRANSFER", "STYLE_TRANSFER":
		return StyleTransfer, nil
	}
	return 0, fmt.Errorf("unknown workflow %q", s)
}

// ParseBaseModel converts a menu value (e.g. "STABLE") to a BaseModel.
func ParseBaseModel(s string) (BaseModel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STABLE":
		return Stable, nil
	case "FLUX":
		return Flux, nil
	}
	return 0, fmt.Errorf("unknown base model %q", s)
}

// ParseStyle converts a menu value (e.g. "PHOTOREAL") to a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PHOTOREAL":
		return Photoreal, nil
	case "3DCARTOON", "CARTOON3D":
		return Cartoon3D, nil
	case "ANIME":
		return Anime, nil
	}
	return 0, fmt.Errorf("unknown style %q", s)
}

// ID is the backend's integer encoding of (workflow, base model, style).
type ID int

// Selection is the triple of UI choices that identifies a pipeline variant.
type Selection struct {
	Workflow  Workflow
	BaseModel BaseModel
	Style     Style
}

// workflowIDs is the fixed lookup table keyed "{workflow}_{model}_{style}"
// over the enum ordinals. Kept in sync with the backend's pipeline registry.
var workflowIDs = map[string]ID{
	// Generative Retexture
	"0_0_0": 0,
	"0_0_1": 1,
	"0_0_2": 2,
	"0_1_0": 3,
	"0_1_1": 4,
	"0_1_2": 5,
	// Style Transfer
	"1_0_0": 6,
	"1_0_1": 7,
	"1_0_2": 8,
	"1_1_0": 9,
	"1_1_1": 10,
	"1_1_2": 11,
}

// Encode returns the backend workflow id for a selection. Combinations
// absent from the table fall back to id 0; the backend treats 0 as the
// default retexture pipeline, so an unmapped triple degrades the render
// rather than failing it. The fallback is logged so it never passes
// silently.
func Encode(w Workflow, m BaseModel, s Style) ID {
	key := fmt.Sprintf("%d_%d_%d", int(w), int(m), int(s))
	id, ok := workflowIDs[key]
	if !ok {
		log.Warn().
			Str("workflow", w.String()).
			Str("baseModel", m.String()).
			Str("style", s.String()).
			Msg("Unmapped workflow selection, falling back to id 0")
		return 0
	}
	return id
}

// Encode returns the backend workflow id for the selection.
func (sel Selection) Encode() ID {
	return Encode(sel.Workflow, sel.BaseModel, sel.Style)
}

// variantsPerWorkflow is the table stride: 2 base models x 3 styles.
const variantsPerWorkflow = 6

// CategoryOf resolves a workflow id back to its workflow category.
// Base-model and style variants within a workflow share the same request
// shape, so submission dispatches on the category, never the raw id.
func CategoryOf(id ID) (Workflow, error) {
	switch {
	case id >= 0 && id < variantsPerWorkflow:
		return Retexture, nil
	case id >= variantsPerWorkflow && id < 2*variantsPerWorkflow:
		return StyleTransfer, nil
	}
	return 0, fmt.Errorf("workflow id %d outside known pipelines", int(id))
}

// Clamp linearly maps a 0-100 slider value onto [targetMin, targetMax].
// Values outside the slider domain are pinned to the endpoints before
// interpolating; the UI guarantees the range but the map stays defensive.
func Clamp(value, targetMin, targetMax float64) float64 {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return targetMin + (targetMax-targetMin)*(value/100)
}
