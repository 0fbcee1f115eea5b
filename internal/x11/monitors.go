package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagtile/internal/models"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// xineramaMonitors is the fallback for servers without usable RandR.
func (c *Connection) xineramaMonitors() ([]Monitor, error) {
	if err := xinerama.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("xinerama init failed: %w", err)
	}
	reply, err := xinerama.QueryScreens(c.XUtil.Conn()).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query xinerama screens: %w", err)
	}
	monitors := make([]Monitor, 0, len(reply.ScreenInfo))
	for i, info := range reply.ScreenInfo {
		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   fmt.Sprintf("xinerama-%d", i),
			X:      int(info.XOrg),
			Y:      int(info.YOrg),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// Screens returns one screen per monitor, trying RandR then Xinerama. With
// neither the whole root window is a single screen.
func (c *Connection) Screens() ([]models.Screen, error) {
	monitors, err := c.GetMonitors()
	if err != nil || len(monitors) == 0 {
		monitors, err = c.xineramaMonitors()
	}
	if err != nil || len(monitors) == 0 {
		geom, gerr := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
		if gerr != nil {
			return nil, fmt.Errorf("failed to get root geometry: %w", gerr)
		}
		return []models.Screen{{
			Root:   models.WindowHandle(c.Root),
			Name:   "root",
			Bounds: models.Rect{Width: int(geom.Width), Height: int(geom.Height)},
		}}, nil
	}
	return monitorScreens(models.WindowHandle(c.Root), monitors), nil
}

// monitorScreens drops monitors that mirror an earlier one.
func monitorScreens(root models.WindowHandle, monitors []Monitor) []models.Screen {
	screens := make([]models.Screen, 0, len(monitors))
	seen := make(map[models.Rect]bool, len(monitors))
	for _, mon := range monitors {
		r := models.Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}
		if seen[r] {
			continue
		}
		seen[r] = true
		screens = append(screens, models.Screen{Root: root, Name: mon.Name, Bounds: r})
	}
	return screens
}

// Pointer returns the pointer position and the top-level window under it.
// The root window is returned when the pointer is over no client.
func (c *Connection) Pointer() (x, y int, under xproto.Window, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	under = reply.Child
	if under == 0 {
		under = c.Root
	}
	return int(reply.RootX), int(reply.RootY), under, nil
}
