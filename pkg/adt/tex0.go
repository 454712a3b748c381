package adt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// SupportedVersion is the only MVER value accepted by ParseTex0.
const SupportedVersion = 18

// UnknownChunk records a chunk with a tag the decoder does not handle.
type UnknownChunk struct {
	Tag    Tag
	Offset int
	Size   uint32
}

// Tex0 holds the texture layer data decoded from a tex0 file.
//
// The slices are indexed by texture layer. They come from independent chunks
// and are not guaranteed to have the same length; a nil slice means the chunk
// was not present.
type Tex0 struct {
	Version    uint32
	Filenames  []string   // MTEX
	TexParams  []TexParam // MTXP
	HeightIDs  []uint32   // MHID
	DiffuseIDs []uint32   // MDID

	// Unknown lists chunks that were skipped because their tag is not known.
	Unknown []UnknownChunk
}

// ParseTex0 parses a tex0 file from raw bytes.
//
// Every chunk is visited, so a repeated chunk replaces the earlier one.
func ParseTex0(data []byte) (*Tex0, error) {
	tex := &Tex0{}
	r := NewChunkReader(data)

	for {
		chunk, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if err := tex.decodeChunk(chunk); err != nil {
			return nil, fmt.Errorf("chunk %s at offset %d: %w", chunk.Tag, chunk.Offset, err)
		}
	}

	return tex, nil
}

func (t *Tex0) decodeChunk(chunk Chunk) error {
	var err error

	switch chunk.Tag {
	case TagMVER:
		if len(chunk.Data) < 4 {
			return fmt.Errorf("%w: version needs 4 bytes, got %d", ErrMalformedChunk, len(chunk.Data))
		}
		t.Version = binary.LittleEndian.Uint32(chunk.Data)
		if t.Version != SupportedVersion {
			return fmt.Errorf("%w: %d", ErrUnsupportedVersion, t.Version)
		}
	case TagMTEX:
		t.Filenames = DecodeStringTable(chunk.Data)
	case TagMTXP:
		t.TexParams, err = DecodeTexParams(chunk.Data)
	case TagMHID:
		t.HeightIDs, err = DecodeUint32Array(chunk.Data)
	case TagMDID:
		t.DiffuseIDs, err = DecodeUint32Array(chunk.Data)
	case TagMCNK, TagMAMP:
		// Not needed for texture metadata.
	default:
		t.Unknown = append(t.Unknown, UnknownChunk{
			Tag:    chunk.Tag,
			Offset: chunk.Offset,
			Size:   chunk.Size,
		})
	}

	return err
}

// LayerCount returns the number of texture layers with shading parameters.
func (t *Tex0) LayerCount() int {
	return len(t.TexParams)
}

// Filename returns the MTEX name of layer i, if present.
func (t *Tex0) Filename(i int) (string, bool) {
	if i < 0 || i >= len(t.Filenames) {
		return "", false
	}
	return t.Filenames[i], true
}

// HeightID returns the height texture file ID of layer i, or 0 if absent.
func (t *Tex0) HeightID(i int) uint32 {
	return uint32At(t.HeightIDs, i)
}

// DiffuseID returns the diffuse texture file ID of layer i, or 0 if absent.
func (t *Tex0) DiffuseID(i int) uint32 {
	return uint32At(t.DiffuseIDs, i)
}

func uint32At(values []uint32, i int) uint32 {
	if i < 0 || i >= len(values) {
		return 0
	}
	return values[i]
}
