package value

// BoundCommand pairs a Command with its "this" owner (spec GLOSSARY:
// "Bound value — a value paired with its this owner, enabling
// method-style invocation"). Produced by compile_bound (spec §4.4).
type BoundCommand struct {
	Inner Command
	This  Value
}

func (b *BoundCommand) Name() string   { return b.Inner.Name() }
func (b *BoundCommand) CanBlock() bool { return b.Inner.CanBlock() }
