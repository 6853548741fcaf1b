package arm

import (
	"errors"

	"github.com/tinbound/armflow/armerr"
)

var (
	errImmutableOperand = errors.New("arm: operand is not assignable")
	errUnmapped         = armerr.ErrUnmappedMemory
)
