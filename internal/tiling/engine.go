package tiling

import (
	"log/slog"
	"sort"

	"github.com/1broseidon/tagtile/internal/models"
)

// DefaultLayout is used when a workspace names a layout the engine does not know.
const DefaultLayout = "main-and-stack"

// Builtin returns the built-in layout library.
//
// These are always available without being defined in the config file.
func Builtin() map[string]Layout {
	return map[string]Layout{
		"grid": {
			Mode:            ModeAuto,
			Region:          Region{Type: RegionFull},
			FlexibleLastRow: true,
		},
		"columns": {
			Mode:   ModeHorizontal,
			Region: Region{Type: RegionFull},
		},
		"rows": {
			Mode:   ModeVertical,
			Region: Region{Type: RegionFull},
		},
		"monocle": {
			Mode:   ModeMonocle,
			Region: Region{Type: RegionFull},
		},
		"main-and-stack": {
			Mode:   ModeMasterStack,
			Region: Region{Type: RegionFull},
			MasterStack: MasterStack{
				MasterWidthPercent: 50,
				MaxStackRows:       4,
				MaxStackCols:       1,
			},
		},
		"main-and-grid": {
			Mode:   ModeMasterStack,
			Region: Region{Type: RegionFull},
			MasterStack: MasterStack{
				MasterWidthPercent: 40,
				MaxStackRows:       3,
				MaxStackCols:       2,
			},
		},
	}
}

// Engine arranges windows by layout name. It holds no per-call state, so
// Arrange returns the same geometry for the same inputs.
type Engine struct {
	layouts map[string]Layout
	gap     int
	logger  *slog.Logger
}

// NewEngine creates an engine over the built-in layouts plus custom ones.
// Custom layouts override built-ins of the same name.
func NewEngine(custom map[string]Layout, gap int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	layouts := Builtin()
	for name, l := range custom {
		layouts[name] = l
	}
	return &Engine{layouts: layouts, gap: gap, logger: logger}
}

// Names returns the known layout names, sorted.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.layouts))
	for name := range e.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is a known layout.
func (e *Engine) Has(name string) bool {
	_, ok := e.layouts[name]
	return ok
}

// Arrange returns geometry for n tiled windows inside area. When the layout
// cannot fit the windows every window is given the whole area.
func (e *Engine) Arrange(name string, area models.Rect, n int) []models.Rect {
	layout, ok := e.layouts[name]
	if !ok {
		layout = e.layouts[DefaultLayout]
	}
	rects, err := Positions(n, area, layout, e.gap)
	if err != nil {
		e.logger.Debug("layout does not fit, stacking windows", "layout", name, "windows", n, "error", err)
		rects, _ = Positions(n, area, Layout{Mode: ModeMonocle}, 0)
	}
	return rects
}
