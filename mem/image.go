// Package mem implements the byte-addressable memory image (component
// A): regions with permissions, pointer-size and endian-aware integer
// accessors, and permission probing.
package mem

import (
	"fmt"

	"github.com/tinbound/armflow/armerr"
)

// Perm is a bitset over {read, write, exec}.
type Perm uint8

const (
	PermRead Perm = 1 << iota
	PermWrite
	PermExec
)

func (p Perm) Has(bit Perm) bool { return p&bit != 0 }

// Region is a MemoryMap tuple: (base, size, perms, name).
type Region struct {
	Base  uint32
	Size  uint32
	Perms Perm
	Name  string
}

func (r Region) contains(va uint32, n uint32) bool {
	if va < r.Base {
		return false
	}
	end := uint64(r.Base) + uint64(r.Size)
	return uint64(va)+uint64(n) <= end
}

// Image is a byte-addressable view over a set of non-overlapping
// regions, with a fixed pointer size and endian.
type Image struct {
	regions     []Region
	backing     map[uint32][]byte
	pointerSize int
	endian      Endian
}

// New creates an empty image with the given pointer size (4 or 8) and
// endian. Both come from the caller (config's pointer_size and
// big_endian keys, for the CLI); pointer values are returned as
// uint32 either way.
func New(pointerSize int, endian Endian) *Image {
	return &Image{
		backing:     make(map[uint32][]byte),
		pointerSize: pointerSize,
		endian:      endian,
	}
}

// PointerSize returns the image's pointer width in bytes.
func (im *Image) PointerSize() int { return im.pointerSize }

// Endian returns the image's byte order.
func (im *Image) Endian() Endian { return im.endian }

// AddRegion registers a new region and allocates its backing bytes.
// Invariant: regions never overlap within a single image.
func (im *Image) AddRegion(base, size uint32, perms Perm, name string) error {
	newR := Region{Base: base, Size: size, Perms: perms, Name: name}
	for _, r := range im.regions {
		if overlaps(r, newR) {
			return fmt.Errorf("region %q overlaps %q: %w", name, r.Name, armerr.ErrOverlap)
		}
	}
	im.regions = append(im.regions, newR)
	im.backing[base] = make([]byte, size)
	return nil
}

func overlaps(a, b Region) bool {
	aEnd := uint64(a.Base) + uint64(a.Size)
	bEnd := uint64(b.Base) + uint64(b.Size)
	return uint64(a.Base) < bEnd && uint64(b.Base) < aEnd
}

// Map returns the region containing va, if any.
func (im *Image) Map(va uint32) (Region, bool) {
	for _, r := range im.regions {
		if r.contains(va, 1) {
			return r, true
		}
	}
	return Region{}, false
}

func (im *Image) findRegion(va, n uint32, perm Perm) (Region, bool) {
	for _, r := range im.regions {
		if r.contains(va, n) && (perm == 0 || r.Perms.Has(perm)) {
			return r, true
		}
	}
	return Region{}, false
}

// Probe reports whether n bytes at va are mapped with perm, never
// raising for out-of-range or unmapped addresses.
func (im *Image) Probe(va uint32, n uint32, perm Perm) bool {
	_, ok := im.findRegion(va, n, perm)
	return ok
}

// ReadBytes returns n bytes at va, or (nil,false) if unmapped.
func (im *Image) ReadBytes(va uint32, n uint32) ([]byte, bool) {
	r, ok := im.findRegion(va, n, PermRead)
	if !ok {
		return nil, false
	}
	buf := im.backing[r.Base]
	off := va - r.Base
	out := make([]byte, n)
	copy(out, buf[off:off+n])
	return out, true
}

// WriteBytes writes b at va, gated on the region's write permission.
func (im *Image) WriteBytes(va uint32, b []byte) error {
	r, ok := im.findRegion(va, uint32(len(b)), PermWrite)
	if !ok {
		return fmt.Errorf("write %d bytes at 0x%08X: %w", len(b), va, armerr.ErrUnmappedMemory)
	}
	buf := im.backing[r.Base]
	off := va - r.Base
	copy(buf[off:], b)
	return nil
}

// ReadPointer reads one pointer-sized value at va in the image's endian.
func (im *Image) ReadPointer(va uint32) (uint32, bool) {
	switch im.pointerSize {
	case 8:
		v, ok := im.ReadU64(va)
		return uint32(v), ok
	default:
		return im.ReadU32(va)
	}
}

func (im *Image) ReadU8(va uint32) (uint8, bool) {
	b, ok := im.ReadBytes(va, 1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (im *Image) ReadU16(va uint32) (uint16, bool) {
	b, ok := im.ReadBytes(va, 2)
	if !ok {
		return 0, false
	}
	return im.endian.Uint16(b), true
}

func (im *Image) ReadU32(va uint32) (uint32, bool) {
	b, ok := im.ReadBytes(va, 4)
	if !ok {
		return 0, false
	}
	return im.endian.Uint32(b), true
}

func (im *Image) ReadU64(va uint32) (uint64, bool) {
	b, ok := im.ReadBytes(va, 8)
	if !ok {
		return 0, false
	}
	return im.endian.Uint64(b), true
}

func (im *Image) ReadS8(va uint32) (int8, bool) {
	v, ok := im.ReadU8(va)
	return int8(v), ok
}

func (im *Image) ReadS16(va uint32) (int16, bool) {
	v, ok := im.ReadU16(va)
	return int16(v), ok
}

func (im *Image) ReadS32(va uint32) (int32, bool) {
	v, ok := im.ReadU32(va)
	return int32(v), ok
}

func (im *Image) WriteU16(va uint32, v uint16) error {
	b := make([]byte, 2)
	im.endian.PutUint16(b, v)
	return im.WriteBytes(va, b)
}

func (im *Image) WriteU32(va uint32, v uint32) error {
	b := make([]byte, 4)
	im.endian.PutUint32(b, v)
	return im.WriteBytes(va, b)
}

// IsFunction/IsValidPointer/ProbeMemory/ReadPointer/PointerSize
// together satisfy codeflow.Workspace without importing that package
// (kept dependency-direction-clean: codeflow depends on mem, not the
// reverse). IsFunction always reports false here; the analyzer layers
// its own "funcs" tracking on top via codeflow.Known.
func (im *Image) IsFunction(uint32) bool { return false }

func (im *Image) IsValidPointer(va uint32) bool {
	return im.Probe(va, uint32(im.pointerSize), PermRead)
}

func (im *Image) ProbeMemory(va uint32, n int, perm Perm) bool {
	return im.Probe(va, uint32(n), perm)
}
