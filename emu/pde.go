package emu

// Value is a partially-defined word (spec.md's PDE posture): Defined
// is false when the emulator could not compute a concrete result,
// e.g. a shift amount or memory address that itself came from
// undefined state. Callers must not branch or compare on an undefined
// Value; they propagate it instead.
type Value struct {
	V       uint32
	Defined bool
}

func Known(v uint32) Value   { return Value{V: v, Defined: true} }
func Unknown() Value         { return Value{} }

// Combine folds two operand values into a result Value: the result is
// defined only if both inputs were.
func Combine(a, b Value, f func(x, y uint32) uint32) Value {
	if !a.Defined || !b.Defined {
		return Unknown()
	}
	return Known(f(a.V, b.V))
}
