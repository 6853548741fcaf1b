package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tinbound/armflow/layout"
	"github.com/tinbound/armflow/mem"
)

const sampleTOML = `
pointer_size = 4
entry_points = [0x8000]

[[region]]
name = "code"
base = 0x8000
size = 0x1000
read = true
exec = true

[[coproc]]
index = 15
kind = "sysctl"

[layout]
variant = "medium"
node_pad = 30
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadParsesRegionsAndEntryPoints(t *testing.T) {
	ws, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ws.EntryPoints) != 1 || ws.EntryPoints[0] != 0x8000 {
		t.Fatalf("entry points = %v", ws.EntryPoints)
	}
	if len(ws.Regions) != 1 || ws.Regions[0].Base != 0x8000 {
		t.Fatalf("regions = %+v", ws.Regions)
	}
}

func TestBuildImageAppliesPermissions(t *testing.T) {
	ws, err := Load(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	img, err := ws.BuildImage()
	if err != nil {
		t.Fatalf("BuildImage: %v", err)
	}
	if !img.Probe(0x8000, 1, mem.PermRead) {
		t.Fatal("expected code region to be readable")
	}
	if img.Probe(0x8000, 1, mem.PermWrite) {
		t.Fatal("code region should not be writable per config")
	}
}

func TestLayoutOptionsAppliesOverrides(t *testing.T) {
	ws, err := Load(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	opts, variant := ws.LayoutOptions()
	if variant != layout.Medium {
		t.Fatalf("variant = %v, want Medium", variant)
	}
	if opts.NodePad != 30 {
		t.Fatalf("NodePad = %d, want 30 (overridden)", opts.NodePad)
	}
	if opts.HeightPad != layout.DefaultOptions().HeightPad {
		t.Fatalf("HeightPad = %d, want default (not overridden)", opts.HeightPad)
	}
}

func TestBuildCoprocRegistryBindsSysctl(t *testing.T) {
	ws, err := Load(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	reg := ws.BuildCoprocRegistry()
	if reg.Get(15).Name() != "cp15" {
		t.Fatalf("coproc 15 = %s, want cp15", reg.Get(15).Name())
	}
}
