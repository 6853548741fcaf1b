package mem

import "encoding/binary"

// Endian selects the byte-order codec table used by integer
// accessors, keeping the hot decode path branch-free (Design Note:
// "Endian selection → tables indexed by endian enum").
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

type codec struct {
	Uint16    func([]byte) uint16
	Uint32    func([]byte) uint32
	Uint64    func([]byte) uint64
	PutUint16 func([]byte, uint16)
	PutUint32 func([]byte, uint32)
	PutUint64 func([]byte, uint64)
}

var codecs = [2]codec{
	LittleEndian: {
		Uint16:    binary.LittleEndian.Uint16,
		Uint32:    binary.LittleEndian.Uint32,
		Uint64:    binary.LittleEndian.Uint64,
		PutUint16: binary.LittleEndian.PutUint16,
		PutUint32: binary.LittleEndian.PutUint32,
		PutUint64: binary.LittleEndian.PutUint64,
	},
	BigEndian: {
		Uint16:    binary.BigEndian.Uint16,
		Uint32:    binary.BigEndian.Uint32,
		Uint64:    binary.BigEndian.Uint64,
		PutUint16: binary.BigEndian.PutUint16,
		PutUint32: binary.BigEndian.PutUint32,
		PutUint64: binary.BigEndian.PutUint64,
	},
}

func (e Endian) Uint16(b []byte) uint16        { return codecs[e].Uint16(b) }
func (e Endian) Uint32(b []byte) uint32        { return codecs[e].Uint32(b) }
func (e Endian) Uint64(b []byte) uint64        { return codecs[e].Uint64(b) }
func (e Endian) PutUint16(b []byte, v uint16)  { codecs[e].PutUint16(b, v) }
func (e Endian) PutUint32(b []byte, v uint32)  { codecs[e].PutUint32(b, v) }
func (e Endian) PutUint64(b []byte, v uint64)  { codecs[e].PutUint64(b, v) }
