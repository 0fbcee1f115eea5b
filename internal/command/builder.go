package command

// Builder resolves raw key chords against the configured bindings.
type Builder struct {
	bindings []Keybind
}

// NewBuilder creates a builder over bindings in declaration order.
func NewBuilder(bindings []Keybind) *Builder {
	return &Builder{bindings: bindings}
}

// Resolve returns the command of the first binding matching the chord.
// Lock modifiers are ignored. No match is a normal outcome.
func (b *Builder) Resolve(mask ModMask, key string) (Command, bool) {
	mask = mask.Clean()
	for _, kb := range b.bindings {
		if kb.Key == key && kb.Mask().Clean() == mask {
			return kb.Command, true
		}
	}
	return nil, false
}
