package tiling

import (
	"reflect"
	"testing"

	"github.com/1broseidon/tagtile/internal/models"
)

func TestPositions_MaxWidthDoesNotCompressGrid(t *testing.T) {
	layout := Layout{
		Mode:      ModeFixed,
		FixedGrid: FixedGrid{Rows: 1, Cols: 2},
		Region:    Region{Type: RegionFull},
		// Smaller than available slot width.
		MaxWidth: 50,
	}
	area := models.Rect{X: 0, Y: 0, Width: 210, Height: 100}

	positions, err := Positions(2, area, layout, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}

	// With width=210, gap=10, cols=2:
	// total gaps = 30, slotWidth=(210-30)/2=90, windowWidth=50, center offset=(90-50)/2=20
	// x0 = 10 + 0*(90+10) + 20 = 30
	// x1 = 10 + 1*(90+10) + 20 = 130
	if positions[0].X != 30 {
		t.Fatalf("expected pos0.X=30, got %d", positions[0].X)
	}
	if positions[1].X != 130 {
		t.Fatalf("expected pos1.X=130, got %d", positions[1].X)
	}
	if positions[0].Width != 50 || positions[1].Width != 50 {
		t.Fatalf("expected both widths to be 50, got %d and %d", positions[0].Width, positions[1].Width)
	}
}

func TestPositions_ErrorsWhenInsufficientSpace(t *testing.T) {
	layout := Layout{
		Mode:      ModeFixed,
		FixedGrid: FixedGrid{Rows: 1, Cols: 2},
		Region:    Region{Type: RegionFull},
	}
	area := models.Rect{X: 0, Y: 0, Width: 20, Height: 10}

	if _, err := Positions(2, area, layout, 20); err == nil {
		t.Fatalf("expected error for insufficient space")
	}
}

func TestPositions_FixedGridCapsWindows(t *testing.T) {
	layout := Layout{Mode: ModeFixed, FixedGrid: FixedGrid{Rows: 1, Cols: 2}}
	positions, err := Positions(5, models.Rect{Width: 200, Height: 100}, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
}

func TestPositions_MasterStack(t *testing.T) {
	layout := Builtin()["main-and-stack"]
	area := models.Rect{X: 0, Y: 0, Width: 200, Height: 100}

	positions, err := Positions(3, area, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.Rect{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 100, Y: 0, Width: 100, Height: 50},
		{X: 100, Y: 50, Width: 100, Height: 50},
	}
	if !reflect.DeepEqual(positions, want) {
		t.Fatalf("positions = %+v, want %+v", positions, want)
	}

	single, err := Positions(1, area, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if single[0] != area {
		t.Fatalf("single window = %+v, want full area", single[0])
	}
}

func TestPositions_FlexibleLastRow(t *testing.T) {
	layout := Builtin()["grid"]
	positions, err := Positions(3, models.Rect{Width: 200, Height: 200}, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if positions[2].Width != 200 {
		t.Fatalf("last row width = %d, want 200", positions[2].Width)
	}
}

func TestApplyRegion_CustomClampsToMinimumSize(t *testing.T) {
	area := models.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	region := Region{
		Type:          RegionCustom,
		XPercent:      0,
		YPercent:      0,
		WidthPercent:  1,
		HeightPercent: 1,
	}

	adjusted := ApplyRegion(area, region)
	if adjusted.Width != 1 || adjusted.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", adjusted.Width, adjusted.Height)
	}
}

func TestEngine_ArrangeIsDeterministic(t *testing.T) {
	e := NewEngine(nil, 4, nil)
	area := models.Rect{X: 10, Y: 20, Width: 800, Height: 600}
	first := e.Arrange("grid", area, 4)
	second := e.Arrange("grid", area, 4)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Arrange not deterministic: %+v vs %+v", first, second)
	}
}

func TestEngine_UnknownLayoutFallsBack(t *testing.T) {
	e := NewEngine(nil, 0, nil)
	area := models.Rect{Width: 200, Height: 100}
	got := e.Arrange("does-not-exist", area, 2)
	want := e.Arrange(DefaultLayout, area, 2)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fallback = %+v, want %+v", got, want)
	}
}

func TestEngine_NoSpaceStacksWindows(t *testing.T) {
	e := NewEngine(nil, 50, nil)
	area := models.Rect{Width: 40, Height: 40}
	got := e.Arrange("columns", area, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(got))
	}
	for _, r := range got {
		if r != area {
			t.Fatalf("expected stacked full-area rects, got %+v", got)
		}
	}
}

func TestEngine_CustomOverridesBuiltin(t *testing.T) {
	e := NewEngine(map[string]Layout{"grid": {Mode: ModeMonocle}}, 0, nil)
	area := models.Rect{Width: 100, Height: 100}
	for _, r := range e.Arrange("grid", area, 2) {
		if r != area {
			t.Fatalf("custom grid should be monocle, got %+v", r)
		}
	}
}
