package coproc

import "github.com/sirupsen/logrus"

// SystemControlStub models coprocessor 15, the ARM system control
// coprocessor, at the granularity this core cares about: a bank of
// 16 addressable control registers (CRn 0-15) that MRC/MCR read and
// write. Every other operation (CDP/STC/LDC/MCRR/MRRC) is not part of
// CP15's real instruction set and falls back to a logged no-op.
type SystemControlStub struct {
	registers [16]uint32
}

func NewSystemControlStub() *SystemControlStub {
	return &SystemControlStub{}
}

func (s *SystemControlStub) Name() string { return "cp15" }

func (s *SystemControlStub) MCR(op Op, value uint32) {
	if op.CRn < 0 || op.CRn >= len(s.registers) {
		return
	}
	logrus.WithFields(logrus.Fields{"crn": op.CRn, "value": value}).Debug("cp15: control register write")
	s.registers[op.CRn] = value
}

func (s *SystemControlStub) MRC(op Op) uint32 {
	if op.CRn < 0 || op.CRn >= len(s.registers) {
		return 0
	}
	return s.registers[op.CRn]
}

func (s *SystemControlStub) CDP(op Op) {
	logrus.WithField("crn", op.CRn).Debug("cp15: cdp has no defined effect")
}

func (s *SystemControlStub) MCRR(op Op, lo, hi uint32) {
	logrus.Debug("cp15: mcrr not modelled")
}

func (s *SystemControlStub) MRRC(op Op) (uint32, uint32) {
	logrus.Debug("cp15: mrrc not modelled")
	return 0, 0
}

func (s *SystemControlStub) STC(op Op, addr uint32, data []byte) {
	logrus.Debug("cp15: stc not modelled")
}

func (s *SystemControlStub) LDC(op Op, addr uint32) []byte {
	logrus.Debug("cp15: ldc not modelled")
	return nil
}
