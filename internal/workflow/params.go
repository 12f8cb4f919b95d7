package workflow

// Target ranges for the per-workflow strength parameters. Both workflows
// derive their depth/outline ControlNet strengths from a single slider;
// style transfer additionally passes the slider through as its own
// strength. Each derived value is computed independently.
const (
	depthMin = 0.6
	depthMax = 1.0

	outlineMin = 0.1
	outlineMax = 0.3

	strengthMin = 0.0
	strengthMax = 1.0
)

// NumMasks is the fixed number of mask slots in a retexture request.
// mask_prompt_1..7 map to fixed positions in the outgoing form.
const NumMasks = 7

// MaskPromptPlaceholder is the hint text the host UI shows in an empty
// mask prompt field. It is substituted with "" before submission.
const MaskPromptPlaceholder = "Describe masked objects..."

// ScenePromptPlaceholder is the hint text for the scene prompt field.
const ScenePromptPlaceholder = "Describe the scene..."

// MaskColors is the fixed palette assigned to mask slots 1..7, hex RGB
// without the leading '#'. The compositor renders each masked object
// group in its slot color so the backend can segment them.
var MaskColors = [NumMasks]string{
	"ffe906", "0589d6", "a2d4d5", "000016", "00ad58", "f084cf", "ee9e3e",
}

// MaskSpec is one mask slot: the user's prompt for the masked objects and
// the slot's segmentation color.
type MaskSpec struct {
	Prompt string
	Color  string
}

// StructureParams are the ControlNet strengths derived from a single
// 0-100 structure-strength slider.
type StructureParams struct {
	Depth   float64
	Outline float64
}

// DeriveStructure maps a structure-strength slider onto the depth and
// outline ControlNet ranges.
func DeriveStructure(slider float64) StructureParams {
	return StructureParams{
		Depth:   Clamp(slider, depthMin, depthMax),
		Outline: Clamp(slider, outlineMin, outlineMax),
	}
}

// StyleTransferParams are the strengths derived from the style-transfer
// strength slider: the same depth/outline pair plus the direct strength
// passthrough.
type StyleTransferParams struct {
	Depth    float64
	Outline  float64
	Strength float64
}

// DeriveStyleTransfer maps a style-transfer-strength slider onto its
// three target ranges.
func DeriveStyleTransfer(slider float64) StyleTransferParams {
	return StyleTransferParams{
		Depth:    Clamp(slider, depthMin, depthMax),
		Outline:  Clamp(slider, outlineMin, outlineMax),
		Strength: Clamp(slider, strengthMin, strengthMax),
	}
}

// PadMaskPrompts normalizes a variable-length prompt list to exactly
// NumMasks entries, padding with empty strings and substituting the
// placeholder text. Returns false when more than NumMasks prompts were
// supplied.
func PadMaskPrompts(prompts []string) ([NumMasks]string, bool) {
	var out [NumMasks]string
	if len(prompts) > NumMasks {
		return out, false
	}
	for i, p := range prompts {
		if p == MaskPromptPlaceholder {
			p = ""
		}
		out[i] = p
	}
	return out, true
}

// Masks builds the fixed 7-slot mask list from padded prompts, assigning
// slot colors from the palette.
func Masks(prompts [NumMasks]string) [NumMasks]MaskSpec {
	var out [NumMasks]MaskSpec
	for i := range prompts {
		out[i] = MaskSpec{Prompt: prompts[i], Color: MaskColors[i]}
	}
	return out
}
