package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/tagtile/internal/models"
)

// Mode selects how a layout distributes windows.
type Mode string

const (
	ModeAuto        Mode = "auto"
	ModeFixed       Mode = "fixed"
	ModeVertical    Mode = "vertical"
	ModeHorizontal  Mode = "horizontal"
	ModeMasterStack Mode = "master-stack"
	ModeMonocle     Mode = "monocle"
)

// RegionType restricts tiling to part of the workspace area.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// Region is the part of the workspace a layout tiles into.
type Region struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent,omitempty"`
	YPercent      int        `yaml:"y_percent,omitempty"`
	WidthPercent  int        `yaml:"width_percent,omitempty"`
	HeightPercent int        `yaml:"height_percent,omitempty"`
}

// FixedGrid is the grid used by ModeFixed.
type FixedGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MasterStack configures ModeMasterStack.
type MasterStack struct {
	MasterWidthPercent int `yaml:"master_width_percent"`
	MaxStackRows       int `yaml:"max_stack_rows"`
	MaxStackCols       int `yaml:"max_stack_cols"`
}

// Layout describes one named arrangement.
type Layout struct {
	Mode            Mode        `yaml:"mode"`
	Region          Region      `yaml:"region"`
	FixedGrid       FixedGrid   `yaml:"fixed_grid,omitempty"`
	MasterStack     MasterStack `yaml:"master_stack,omitempty"`
	FlexibleLastRow bool        `yaml:"flexible_last_row,omitempty"`
	// MaxWidth and MaxHeight cap window size; windows are centered in their slot.
	MaxWidth  int `yaml:"max_width,omitempty"`
	MaxHeight int `yaml:"max_height,omitempty"`
}

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// Positions computes window geometry for n windows inside area.
//
// Fixed and master-stack layouts have a capacity; windows beyond it get no
// position, so the result may be shorter than n.
func Positions(n int, area models.Rect, layout Layout, gap int) ([]models.Rect, error) {
	if n == 0 {
		return nil, nil
	}
	area = ApplyRegion(area, layout.Region)

	var rows, cols int
	flexibleLastRow := layout.FlexibleLastRow

	switch layout.Mode {
	case ModeAuto, "":
		rows, cols = CalculateGrid(n)

	case ModeFixed:
		rows = layout.FixedGrid.Rows
		cols = layout.FixedGrid.Cols
		if n > rows*cols {
			n = rows * cols
		}
		flexibleLastRow = false

	case ModeVertical:
		rows, cols = n, 1
		flexibleLastRow = false

	case ModeHorizontal:
		rows, cols = 1, n
		flexibleLastRow = false

	case ModeMonocle:
		out := make([]models.Rect, n)
		for i := range out {
			out[i] = area.Shrink(models.UniformMargins(gap))
		}
		return out, nil

	case ModeMasterStack:
		return masterStack(n, area, layout.MasterStack, gap)

	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", layout.Mode)
	}

	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}

	slotWidth := (area.Width - (cols+1)*gap) / cols
	slotHeight := (area.Height - (rows+1)*gap) / rows
	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, gap, slotWidth, slotHeight,
		)
	}

	windowWidth := capTo(slotWidth, layout.MaxWidth)
	windowHeight := capTo(slotHeight, layout.MaxHeight)

	lastRow := rows - 1
	inLastRow := n - lastRow*cols
	if inLastRow <= 0 {
		inLastRow = cols
	}
	stretchLast := flexibleLastRow && inLastRow < cols
	lastSlotWidth := 0
	if stretchLast {
		lastSlotWidth = (area.Width - (inLastRow+1)*gap) / inLastRow
	}

	positions := make([]models.Rect, n)
	for i := 0; i < n; i++ {
		row, col := i/cols, i%cols
		slotW, width := slotWidth, windowWidth
		if stretchLast && row == lastRow {
			col = i - lastRow*cols
			slotW, width = lastSlotWidth, capTo(lastSlotWidth, layout.MaxWidth)
		}

		x := area.X + gap + col*(slotW+gap) + (slotW-width)/2
		y := area.Y + gap + row*(slotHeight+gap) + (slotHeight-windowHeight)/2
		positions[i] = models.Rect{X: x, Y: y, Width: width, Height: windowHeight}
	}

	return positions, nil
}

func masterStack(n int, area models.Rect, ms MasterStack, gap int) ([]models.Rect, error) {
	masterWidth := area.Width*ms.MasterWidthPercent/100 - gap
	stackHeight := area.Height - 2*gap

	if n == 1 {
		return []models.Rect{{
			X:      area.X + gap,
			Y:      area.Y + gap,
			Width:  area.Width - 2*gap,
			Height: stackHeight,
		}}, nil
	}

	stackCount := n - 1
	stackCols := int(math.Ceil(float64(stackCount) / float64(max(ms.MaxStackRows, 1))))
	stackCols = min(max(stackCols, 1), max(ms.MaxStackCols, 1))
	stackRows := int(math.Ceil(float64(stackCount) / float64(stackCols)))
	if ms.MaxStackRows > 0 && stackRows > ms.MaxStackRows {
		stackRows = ms.MaxStackRows
	}
	stackCount = min(stackCount, stackRows*stackCols)

	rightX := area.X + masterWidth + 2*gap
	rightWidth := area.Width - masterWidth - 3*gap
	cellWidth := (rightWidth - (stackCols-1)*gap) / stackCols
	cellHeight := (stackHeight - (stackRows-1)*gap) / stackRows

	if masterWidth <= 0 || cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack layout: area=%dx%d masterWidth=%d cellWidth=%d cellHeight=%d gap=%d",
			area.Width, area.Height, masterWidth, cellWidth, cellHeight, gap,
		)
	}

	positions := make([]models.Rect, stackCount+1)
	positions[0] = models.Rect{X: area.X + gap, Y: area.Y + gap, Width: masterWidth, Height: stackHeight}
	for i := 0; i < stackCount; i++ {
		row, col := i/stackCols, i%stackCols
		positions[i+1] = models.Rect{
			X:      rightX + col*(cellWidth+gap),
			Y:      area.Y + gap + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return positions, nil
}

func capTo(v, limit int) int {
	if limit > 0 && v > limit {
		return limit
	}
	return v
}

// ApplyRegion applies the tile region to an area, returning adjusted bounds
func ApplyRegion(area models.Rect, region Region) models.Rect {
	adjusted := area

	switch region.Type {
	case RegionLeftHalf:
		adjusted.Width = area.Width / 2

	case RegionRightHalf:
		adjusted.X = area.X + area.Width/2
		adjusted.Width = area.Width / 2

	case RegionTopHalf:
		adjusted.Height = area.Height / 2

	case RegionBottomHalf:
		adjusted.Y = area.Y + area.Height/2
		adjusted.Height = area.Height / 2

	case RegionCustom:
		adjusted.X = area.X + (area.Width * region.XPercent / 100)
		adjusted.Y = area.Y + (area.Height * region.YPercent / 100)
		adjusted.Width = area.Width * region.WidthPercent / 100
		adjusted.Height = area.Height * region.HeightPercent / 100
	}

	if adjusted.Width < 1 {
		adjusted.Width = 1
	}
	if adjusted.Height < 1 {
		adjusted.Height = 1
	}

	return adjusted
}
