package workflow

import (
	"fmt"
	"testing"
)

func TestEncodeTableEntries(t *testing.T) {
	tests := []struct {
		w    Workflow
		m    BaseModel
		s    Style
		want ID
	}{
		{Retexture, Stable, Photoreal, 0},
		{Retexture, Stable, Cartoon3D, 1},
		{Retexture, Stable, Anime, 2},
		{Retexture, Flux, Photoreal, 3},
		{Retexture, Flux, Cartoon3D, 4},
		{Retexture, Flux, Anime, 5},
		{StyleTransfer, Stable, Photoreal, 6},
		{StyleTransfer, Stable, Cartoon3D, 7},
		{StyleTransfer, Stable, Anime, 8},
		{StyleTransfer, Flux, Photoreal, 9},
		{StyleTransfer, Flux, Cartoon3D, 10},
		{StyleTransfer, Flux, Anime, 11},
	}
	for _, tt := range tests {
		got := Encode(tt.w, tt.m, tt.s)
		if got != tt.want {
			t.Errorf("Encode(%s, %s, %s) = %d, want %d", tt.w, tt.m, tt.s, got, tt.want)
		}
		// Pure function: identical inputs always yield the identical id.
		if again := Encode(tt.w, tt.m, tt.s); again != got {
			t.Errorf("Encode not deterministic: %d then %d", got, again)
		}
	}
}

func TestEncodeDistinctIDs(t *testing.T) {
	seen := map[ID]string{}
	for _, w := range []Workflow{Retexture, StyleTransfer} {
		for _, m := range []BaseModel{Stable, Flux} {
			for _, s := range []Style{Photoreal, Cartoon3D, Anime} {
				id := Encode(w, m, s)
				key := fmt.Sprintf("%s/%s/%s", w, m, s)
				if prev, dup := seen[id]; dup {
					t.Errorf("id %d produced by both %s and %s", id, prev, key)
				}
				seen[id] = key
			}
		}
	}
	if len(seen) != 12 {
		t.Errorf("expected 12 distinct ids, got %d", len(seen))
	}
}

func TestEncodeUnmappedFallsBack(t *testing.T) {
	got := Encode(Workflow(9), Stable, Photoreal)
	if got != 0 {
		t.Errorf("unmapped selection: got %d, want fallback 0", got)
	}
}

func TestCategoryOf(t *testing.T) {
	for id := ID(0); id <= 5; id++ {
		cat, err := CategoryOf(id)
		if err != nil || cat != Retexture {
			t.Errorf("CategoryOf(%d) = %v, %v; want Retexture", id, cat, err)
		}
	}
	for id := ID(6); id <= 11; id++ {
		cat, err := CategoryOf(id)
		if err != nil || cat != StyleTransfer {
			t.Errorf("CategoryOf(%d) = %v, %v; want StyleTransfer", id, cat, err)
		}
	}
	for _, id := range []ID{-1, 12, 100} {
		if _, err := CategoryOf(id); err == nil {
			t.Errorf("CategoryOf(%d): expected error", id)
		}
	}
}

func TestClampEndpoints(t *testing.T) {
	ranges := [][2]float64{{0.6, 1.0}, {0.1, 0.3}, {0.0, 1.0}, {-2, 7}}
	for _, r := range ranges {
		a, b := r[0], r[1]
		if got := Clamp(0, a, b); got != a {
			t.Errorf("Clamp(0, %v, %v) = %v, want %v", a, b, got, a)
		}
		if got := Clamp(100, a, b); got != b {
			t.Errorf("Clamp(100, %v, %v) = %v, want %v", a, b, got, b)
		}
		mid := (a + b) / 2
		if got := Clamp(50, a, b); !almostEqual(got, mid) {
			t.Errorf("Clamp(50, %v, %v) = %v, want %v", a, b, got, mid)
		}
	}
}

func TestClampPinsDomain(t *testing.T) {
	if got := Clamp(-30, 0.6, 1.0); got != 0.6 {
		t.Errorf("Clamp(-30) = %v, want 0.6", got)
	}
	if got := Clamp(250, 0.6, 1.0); got != 1.0 {
		t.Errorf("Clamp(250) = %v, want 1.0", got)
	}
}

func TestClampMonotonic(t *testing.T) {
	prev := Clamp(0, 0.1, 0.3)
	for v := 1.0; v <= 100; v++ {
		cur := Clamp(v, 0.1, 0.3)
		if cur < prev {
			t.Fatalf("Clamp not monotonic at %v: %v < %v", v, cur, prev)
		}
		prev = cur
	}
}

func TestDeriveStructure(t *testing.T) {
	p := DeriveStructure(50)
	if !almostEqual(p.Depth, 0.8) {
		t.Errorf("depth = %v, want 0.8", p.Depth)
	}
	if !almostEqual(p.Outline, 0.2) {
		t.Errorf("outline = %v, want 0.2", p.Outline)
	}
}

func TestDeriveStyleTransfer(t *testing.T) {
	p := DeriveStyleTransfer(50)
	if !almostEqual(p.Depth, 0.8) || !almostEqual(p.Outline, 0.2) || !almostEqual(p.Strength, 0.5) {
		t.Errorf("unexpected params: %+v", p)
	}
}

func TestPadMaskPrompts(t *testing.T) {
	padded, ok := PadMaskPrompts([]string{"brick wall", MaskPromptPlaceholder, "grass"})
	if !ok {
		t.Fatal("expected ok for 3 prompts")
	}
	want := [NumMasks]string{"brick wall", "", "grass", "", "", "", ""}
	if padded != want {
		t.Errorf("padded = %v, want %v", padded, want)
	}

	if _, ok := PadMaskPrompts(make([]string, 8)); ok {
		t.Error("expected rejection of 8 prompts")
	}
}

func TestMasksAssignPaletteColors(t *testing.T) {
	prompts, _ := PadMaskPrompts([]string{"sofa"})
	masks := Masks(prompts)
	if masks[0].Prompt != "sofa" || masks[0].Color != "ffe906" {
		t.Errorf("mask 1 = %+v", masks[0])
	}
	if masks[6].Color != "ee9e3e" {
		t.Errorf("mask 7 color = %s", masks[6].Color)
	}
}

func TestStylesForModel(t *testing.T) {
	if got := len(StylesForModel[Flux]); got != 1 {
		t.Errorf("Flux styles = %d, want 1", got)
	}
	if got := len(StylesForModel[Stable]); got != 3 {
		t.Errorf("Stable styles = %d, want 3", got)
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
