package texinfo

import (
	"math"
	"testing"

	"github.com/Faultbox/heightdump/pkg/adt"
)

// mapResolver is a PathResolver backed by a map.
type mapResolver map[uint32]string

func (m mapResolver) Path(id uint32) (string, bool) {
	p, ok := m[id]
	return p, ok
}

func TestAssemble_SingleLayer(t *testing.T) {
	tex := &adt.Tex0{
		Filenames:  []string{"tex.blp"},
		TexParams:  []adt.TexParam{{Flags: 0x20, Height: 5, Offset: 0}},
		DiffuseIDs: []uint32{7},
		HeightIDs:  []uint32{42},
	}

	entries := Assemble(tex, mapResolver{7: "tileset/other_s.blp"})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Path != "tex.blp" {
		t.Errorf("expected MTEX name to win, got %q", e.Path)
	}
	if e.HeightID != 42 {
		t.Errorf("expected height ID 42, got %d", e.HeightID)
	}
	expected := TextureInfo{Scale: 2, HeightScale: 5, HeightOffset: 0}
	if e.Info != expected {
		t.Errorf("expected %+v, got %+v", expected, e.Info)
	}
}

func TestAssemble_DiffuseName(t *testing.T) {
	tex := &adt.Tex0{
		TexParams:  []adt.TexParam{{Flags: 0x10, Height: 3, Offset: 0.5}},
		DiffuseIDs: []uint32{7},
		HeightIDs:  []uint32{42},
	}

	entries := Assemble(tex, mapResolver{7: "tileset/elwynn/grass_s.blp"})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != "tileset/elwynn/grass.blp" {
		t.Errorf("expected diffuse base name, got %q", entries[0].Path)
	}
}

func TestAssemble_UnresolvedDiffuse(t *testing.T) {
	tex := &adt.Tex0{
		TexParams:  []adt.TexParam{{Flags: 0x10, Height: 3}},
		DiffuseIDs: []uint32{1234},
		HeightIDs:  []uint32{42},
	}

	entries := Assemble(tex, mapResolver{})
	if len(entries) != 1 || entries[0].Path != "" {
		t.Errorf("expected one entry with empty path, got %+v", entries)
	}
}

func TestAssemble_SkipRules(t *testing.T) {
	tests := []struct {
		name string
		tex  *adt.Tex0
	}{
		{
			name: "no height encoding",
			tex: &adt.Tex0{
				Filenames: []string{"a.blp"},
				TexParams: []adt.TexParam{{Flags: 0xF0, Height: 0, Offset: 1}},
				HeightIDs: []uint32{42},
			},
		},
		{
			name: "zero height ID",
			tex: &adt.Tex0{
				Filenames: []string{"a.blp"},
				TexParams: []adt.TexParam{{Flags: 0x20, Height: 5, Offset: 0}},
				HeightIDs: []uint32{0},
			},
		},
		{
			name: "missing MHID",
			tex: &adt.Tex0{
				Filenames: []string{"a.blp"},
				TexParams: []adt.TexParam{{Flags: 0x20, Height: 5, Offset: 0}},
			},
		},
		{
			name: "short MHID",
			tex: &adt.Tex0{
				TexParams: []adt.TexParam{{Height: 0, Offset: 1}, {Flags: 0x20, Height: 5}},
				HeightIDs: []uint32{42},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if entries := Assemble(tt.tex, nil); len(entries) != 0 {
				t.Errorf("expected no entries, got %+v", entries)
			}
		})
	}
}

func TestAssemble_ShortArrays(t *testing.T) {
	tex := &adt.Tex0{
		Filenames:  []string{"a.blp"},
		TexParams:  []adt.TexParam{{Flags: 0x10, Height: 1}, {Flags: 0x20, Height: 2}, {Flags: 0x30, Height: 3}},
		DiffuseIDs: []uint32{0, 8},
		HeightIDs:  []uint32{10, 11},
	}

	entries := Assemble(tex, mapResolver{8: "b_s.blp"})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "a.blp" || entries[0].HeightID != 10 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Path != "b.blp" || entries[1].HeightID != 11 || entries[1].Info.Scale != 2 {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestAssemble_NonFiniteHeight(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tex := &adt.Tex0{
		Filenames: []string{"good.blp", "nan.blp", "inf.blp", "neginf.blp"},
		TexParams: []adt.TexParam{
			{Flags: 0x10, Height: 2, Offset: 0.5},
			{Flags: 0x10, Height: nan, Offset: 0},
			{Flags: 0x10, Height: 1, Offset: inf},
			{Flags: 0x10, Height: -inf, Offset: 1},
		},
		HeightIDs: []uint32{10, 11, 12, 13},
	}

	entries := Assemble(tex, nil)
	if len(entries) != 1 || entries[0].Path != "good.blp" {
		t.Fatalf("expected only good.blp, got %+v", entries)
	}

	skipped := NonFiniteLayers(tex)
	if len(skipped) != 3 || skipped[0] != 1 || skipped[1] != 2 || skipped[2] != 3 {
		t.Errorf("expected layers [1 2 3], got %v", skipped)
	}
}

func TestDiffuseBaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"tileset/grass_s.blp", "tileset/grass.blp"},
		{"tileset/GRASS_S.BLP", "tileset/GRASS.BLP"},
		{"tileset/grass.blp", "tileset/grass.blp"},
		{"tileset/grass_s_h.blp", "tileset/grass_s_h.blp"},
		{"tileset/rocks_sand.blp", "tileset/rocks_sand.blp"},
		{"dir/foo_s", "dir/foo_s"},
	}

	for _, tt := range tests {
		if got := DiffuseBaseName(tt.input); got != tt.expected {
			t.Errorf("DiffuseBaseName(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}
