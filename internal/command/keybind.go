package command

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
)

// ModMask is an X11 modifier bit set.
type ModMask uint16

// ShiftMask is the Shift modifier bit.
const ShiftMask ModMask = xproto.ModMaskShift

// numLockMask is where NumLock lives on nearly every keymap.
const numLockMask = ModMask(xproto.ModMask2)

var modifierNames = map[string]ModMask{
	"shift":   xproto.ModMaskShift,
	"lock":    xproto.ModMaskLock,
	"control": xproto.ModMaskControl,
	"ctrl":    xproto.ModMaskControl,
	"mod1":    xproto.ModMask1,
	"alt":     xproto.ModMask1,
	"mod2":    xproto.ModMask2,
	"mod3":    xproto.ModMask3,
	"mod4":    xproto.ModMask4,
	"super":   xproto.ModMask4,
	"mod5":    xproto.ModMask5,
}

// ModMaskFromNames folds modifier names into a mask. Unknown names are
// ignored so an odd config entry never prevents the rest from binding.
func ModMaskFromNames(names []string) ModMask {
	var mask ModMask
	for _, name := range names {
		mask |= modifierNames[strings.ToLower(strings.TrimSpace(name))]
	}
	return mask
}

// Clean strips lock modifiers that should not affect binding matches.
func (m ModMask) Clean() ModMask {
	return m &^ (ModMask(xproto.ModMaskLock) | numLockMask)
}

// Has reports whether every bit of o is set in m.
func (m ModMask) Has(o ModMask) bool {
	return m&o == o
}

// Button is a pointer button number.
type Button uint8

const (
	ButtonMain      Button = xproto.ButtonIndex1
	ButtonMiddle    Button = xproto.ButtonIndex2
	ButtonSecondary Button = xproto.ButtonIndex3
	ButtonScrollUp  Button = xproto.ButtonIndex4
	ButtonScrollDn  Button = xproto.ButtonIndex5
)

// Keybind maps a key chord to a command.
type Keybind struct {
	Command   Command
	Modifiers []string
	Key       string
}

// Mask returns the modifier mask of the binding.
func (k Keybind) Mask() ModMask {
	return ModMaskFromNames(k.Modifiers)
}

// Chord renders the binding in xgbutil's "Mod4-Shift-1" form.
func (k Keybind) Chord() string {
	parts := make([]string, 0, len(k.Modifiers)+1)
	for _, m := range k.Modifiers {
		if _, ok := modifierNames[strings.ToLower(m)]; ok {
			parts = append(parts, canonicalModifier(m))
		}
	}
	parts = append(parts, k.Key)
	return strings.Join(parts, "-")
}

func canonicalModifier(name string) string {
	switch strings.ToLower(name) {
	case "shift":
		return "shift"
	case "lock":
		return "lock"
	case "control", "ctrl":
		return "control"
	case "mod1", "alt":
		return "mod1"
	case "mod2":
		return "mod2"
	case "mod3":
		return "mod3"
	case "mod4", "super":
		return "mod4"
	case "mod5":
		return "mod5"
	}
	return name
}
