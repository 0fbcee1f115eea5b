package models

import "testing"

func TestWindowChange_ApplyReportsChanges(t *testing.T) {
	w := NewWindow(1, "term")
	name := "term"
	if (WindowChange{Handle: 1, Name: &name}).Apply(&w) {
		t.Fatalf("same name should not count as a change")
	}

	name = "editor"
	dialog := WindowTypeDialog
	if !(WindowChange{Handle: 1, Name: &name, Type: &dialog}).Apply(&w) {
		t.Fatalf("expected change")
	}
	if w.Name != "editor" || w.Type != WindowTypeDialog {
		t.Fatalf("change not applied: %+v", w)
	}
	if !w.IsFloating() {
		t.Fatalf("dialogs float")
	}

	if !(WindowChange{Handle: 1, States: []WindowState{StateFullscreen}}).Apply(&w) {
		t.Fatalf("expected state change")
	}
	if (WindowChange{Handle: 1, States: []WindowState{StateFullscreen}}).Apply(&w) {
		t.Fatalf("identical states should not count as a change")
	}
	if !w.IsFullscreen() {
		t.Fatalf("expected fullscreen")
	}
}

func TestWindow_ContainsUsesEffectiveGeometry(t *testing.T) {
	w := NewWindow(1, "")
	w.Normal = Rect{X: 0, Y: 0, Width: 100, Height: 100}
	w.FloatingRect = Rect{X: 500, Y: 500, Width: 50, Height: 50}

	if !w.Contains(10, 10) || w.Contains(510, 510) {
		t.Fatalf("tiled window should use normal geometry")
	}
	w.Floating = true
	if w.Contains(10, 10) || !w.Contains(510, 510) {
		t.Fatalf("floating window should use floating geometry")
	}
}

func TestWindow_CloneDoesNotAlias(t *testing.T) {
	w := NewWindow(1, "")
	w.Tag(2)
	c := w.Clone()
	c.Tags[0] = 3
	if w.Tags[0] != 2 {
		t.Fatalf("clone aliases tags")
	}
}

func TestTags_HiddenAfterNormal(t *testing.T) {
	tags := NewTags([]string{"1", "2", "3"})
	id := tags.AddHidden(ScratchPadTagLabel)
	if id != 4 {
		t.Fatalf("expected hidden tag id 4, got %d", id)
	}
	if again := tags.AddHidden(ScratchPadTagLabel); again != id {
		t.Fatalf("AddHidden should be idempotent, got %d", again)
	}
	if tags.IsNormal(id) || !tags.IsNormal(3) || tags.IsNormal(0) {
		t.Fatalf("IsNormal mismatch")
	}
	if tags.LenNormal() != 3 || len(tags.All()) != 4 {
		t.Fatalf("unexpected tag counts")
	}
}

func TestScratchPad_PlacePercent(t *testing.T) {
	sp := ScratchPad{Name: "term", Geometry: &Rect{X: 10, Y: 10, Width: 80, Height: 50}}
	got := sp.Place(Rect{X: 0, Y: 0, Width: 1000, Height: 800})
	want := Rect{X: 100, Y: 80, Width: 800, Height: 400}
	if got != want {
		t.Fatalf("Place = %+v, want %+v", got, want)
	}
}
