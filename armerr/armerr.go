// Package armerr holds the sentinel error values shared across the
// memory, decoder, register, code-flow, and emulator packages.
package armerr

import "errors"

// Decode-time errors.
var (
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrInvalidCoproc      = errors.New("invalid coprocessor index")
)

// Memory errors.
var (
	ErrUnmappedMemory = errors.New("unmapped memory")
	ErrOverlap        = errors.New("overlapping memory region")
	ErrPermission     = errors.New("memory permission denied")
)

// Execution errors.
var (
	ErrUnsupportedInstruction = errors.New("unsupported instruction")
	ErrUndefinedFlag          = errors.New("undefined flag")
	ErrUndefinedOperand       = errors.New("undefined operand")
	ErrBankViolation          = errors.New("bank or mode violation")
	ErrInvalidBranchTarget    = errors.New("invalid branch target")
)
