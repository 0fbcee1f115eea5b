package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tagtile/internal/command"
)

// KeyHandler receives a grabbed chord.
type KeyHandler func(mods command.ModMask, key string)

// GrabKeys replaces every key grab on the root window with bindings. Chords
// that fail to grab are returned together; the rest stay grabbed.
func (c *Connection) GrabKeys(bindings []command.Keybind, handle KeyHandler) error {
	keybind.Detach(c.XUtil, c.Root)
	configureIgnoreMods(c.XUtil)

	var failed []string
	seen := make(map[string]bool)
	for _, b := range bindings {
		chord := b.Chord()
		if seen[chord] {
			continue
		}
		seen[chord] = true

		mods, key := b.Mask(), b.Key
		err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
			handle(mods, key)
		}).Connect(c.XUtil, c.Root, chord, true)
		if err != nil {
			failed = append(failed, chord)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to grab %d key(s): %v", len(failed), failed)
	}
	return nil
}

// configureIgnoreMods makes grabs match with any combination of CapsLock,
// NumLock and ScrollLock held.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every subset of base OR-ed together, including 0.
func ignoreMasks(base []uint16) []uint16 {
	out := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
