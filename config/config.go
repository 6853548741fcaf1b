// Package config loads an armflow session from a TOML file: memory
// regions, seed entry points, coprocessor bindings, and layout tuning,
// following the teacher's nearest analogue (the emulator's .toml
// session config in lookbusy1344-arm_emulator).
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/tinbound/armflow/coproc"
	"github.com/tinbound/armflow/layout"
	"github.com/tinbound/armflow/mem"
)

// Region is one [[region]] table entry.
type Region struct {
	Name  string `toml:"name"`
	Base  uint32 `toml:"base"`
	Size  uint32 `toml:"size"`
	Read  bool   `toml:"read"`
	Write bool   `toml:"write"`
	Exec  bool   `toml:"exec"`
}

func (r Region) perms() mem.Perm {
	var p mem.Perm
	if r.Read {
		p |= mem.PermRead
	}
	if r.Write {
		p |= mem.PermWrite
	}
	if r.Exec {
		p |= mem.PermExec
	}
	return p
}

// Coproc binds a coprocessor number to a named stub kind ("base" or
// "sysctl" in this core; an embedder can register more).
type Coproc struct {
	Index int    `toml:"index"`
	Kind  string `toml:"kind"`
}

// Layout mirrors layout.Options plus the variant name, as plain TOML
// scalars (layout.Variant itself is not a TOML-friendly type).
type Layout struct {
	Variant      string `toml:"variant"`
	NodePad      int    `toml:"node_pad"`
	HeightPad    int    `toml:"height_pad"`
	EdgeDistance int    `toml:"edge_distance"`
}

func (l Layout) toOptions() layout.Options {
	opts := layout.DefaultOptions()
	if l.NodePad != 0 {
		opts.NodePad = l.NodePad
	}
	if l.HeightPad != 0 {
		opts.HeightPad = l.HeightPad
	}
	if l.EdgeDistance != 0 {
		opts.EdgeDistance = l.EdgeDistance
	}
	return opts
}

func (l Layout) toVariant() layout.Variant {
	switch l.Variant {
	case "wide":
		return layout.Wide
	case "medium":
		return layout.Medium
	default:
		return layout.Narrow
	}
}

// Workspace is the root of a loaded session.
type Workspace struct {
	PointerSize int      `toml:"pointer_size"`
	BigEndian   bool      `toml:"big_endian"`
	EntryPoints []uint32 `toml:"entry_points"`
	Regions     []Region `toml:"region"`
	Coprocs     []Coproc `toml:"coproc"`
	Layout      Layout   `toml:"layout"`
}

// Load reads a session from path, defaulting pointer_size to 4 when it
// is absent. No other field is checked.
func Load(path string) (*Workspace, error) {
	var ws Workspace
	if _, err := toml.DecodeFile(path, &ws); err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}
	if ws.PointerSize == 0 {
		ws.PointerSize = 4
	}
	return &ws, nil
}

// BuildImage constructs a mem.Image from the workspace's region list.
func (ws *Workspace) BuildImage() (*mem.Image, error) {
	endian := mem.LittleEndian
	if ws.BigEndian {
		endian = mem.BigEndian
	}
	img := mem.New(ws.PointerSize, endian)
	for _, r := range ws.Regions {
		if err := img.AddRegion(r.Base, r.Size, r.perms(), r.Name); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// LayoutOptions returns the configured layout.Options and Variant.
func (ws *Workspace) LayoutOptions() (layout.Options, layout.Variant) {
	return ws.Layout.toOptions(), ws.Layout.toVariant()
}

// BuildCoprocRegistry constructs a coproc.Registry with the workspace's
// [[coproc]] bindings applied over the default (base-stub-everywhere,
// system-control-at-15) registry.
func (ws *Workspace) BuildCoprocRegistry() *coproc.Registry {
	reg := coproc.NewRegistry()
	for _, c := range ws.Coprocs {
		if c.Index < 0 || c.Index > 15 {
			continue
		}
		switch c.Kind {
		case "sysctl":
			reg.Bind(c.Index, coproc.NewSystemControlStub())
		case "base", "":
			// already the default
		}
	}
	return reg
}
