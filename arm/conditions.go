package arm

// Flags is the subset of CPSR/APSR condition flags a predicate reads.
type Flags struct {
	N, Z, C, V bool
}

// CondPredicate evaluates one condition field against the current
// flags.
type CondPredicate func(Flags) bool

// condTable is the fixed 14-entry predicate table (spec.md §4.B):
// fourteen two-operand flag predicates over (N,Z,C,V). Prefixes 14
// (AL) and 15 (NV, treated as always on this core) are handled by the
// caller rather than occupying table slots, since they don't inspect
// flags at all.
var condTable = [14]CondPredicate{
	CondEQ: func(f Flags) bool { return f.Z },
	CondNE: func(f Flags) bool { return !f.Z },
	CondCS: func(f Flags) bool { return f.C },
	CondCC: func(f Flags) bool { return !f.C },
	CondMI: func(f Flags) bool { return f.N },
	CondPL: func(f Flags) bool { return !f.N },
	CondVS: func(f Flags) bool { return f.V },
	CondVC: func(f Flags) bool { return !f.V },
	CondHI: func(f Flags) bool { return f.C && !f.Z },
	CondLS: func(f Flags) bool { return !f.C || f.Z },
	CondGE: func(f Flags) bool { return f.N == f.V },
	CondLT: func(f Flags) bool { return f.N != f.V },
	CondGT: func(f Flags) bool { return !f.Z && f.N == f.V },
	CondLE: func(f Flags) bool { return f.Z || f.N != f.V },
}

// Eval reports whether the condition holds given the flags. AL and NV
// always evaluate true, per spec.md: "prefixes 14 and 15 mean always
// execute."
func (c Cond) Eval(f Flags) bool {
	if c == CondAL || c == CondNV {
		return true
	}
	return condTable[c](f)
}

func (c Cond) String() string {
	names := [...]string{"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
		"hi", "ls", "ge", "lt", "gt", "le", "al", "nv"}
	if int(c) < len(names) {
		return names[c]
	}
	return "??"
}
