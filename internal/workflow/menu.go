package workflow

// Menu metadata the host surfaces next to the dropdowns. Display-only;
// none of it feeds the encoded request.

// StylesForModel lists the styles the UI offers per base model. Flux only
// ships a photoreal checkpoint; the encoder table still defines ids for
// the other combinations in case the backend adds them.
var StylesForModel = map[BaseModel][]Style{
	Stable: {Photoreal, Cartoon3D, Anime},
	Flux:   {Photoreal},
}

// RenderStats describes the expected output and cost of a base model,
// shown in the UI beside the model dropdown.
type RenderStats struct {
	Resolution string
	Time       string
	Credits    string
}

var renderStats = map[BaseModel]RenderStats{
	Stable: {Resolution: "1024 x 1024", Time: "15s - 30s", Credits: "10"},
	Flux:   {Resolution: "960 x 960", Time: "45s - 1m", Credits: "30"},
}

// StatsFor returns the display stats for a base model.
func StatsFor(m BaseModel) (RenderStats, bool) {
	s, ok := renderStats[m]
	return s, ok
}
