package adt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Faultbox/heightdump/pkg/encoding"
)

// texParamSize is the on-disk size of one MTXP entry, padding included.
const texParamSize = 16

// TexParam holds the shading parameters of one texture layer.
type TexParam struct {
	Flags  uint32  // bits 4+ are the texture scale, low bits are unrelated flags
	Height float32 // height scale
	Offset float32 // height offset
}

// Scale returns the texture scale stored in the upper flag bits.
func (p TexParam) Scale() int {
	return int(p.Flags >> 4)
}

// NoHeight reports whether the layer uses the "no height texture" encoding.
func (p TexParam) NoHeight() bool {
	return p.Height == 0 && p.Offset == 1
}

// Finite reports whether both height values are ordinary numbers, neither
// NaN nor infinite.
func (p TexParam) Finite() bool {
	return finite(p.Height) && finite(p.Offset)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// DecodeStringTable splits a block of zero-terminated strings.
//
// Empty strings between terminators are kept so that positions line up with
// texture layer indices. A trailing string without a terminator is included
// when non-empty.
func DecodeStringTable(data []byte) []string {
	names := make([]string, 0, bytes.Count(data, []byte{0}))
	for len(data) > 0 {
		idx := bytes.IndexByte(data, 0)
		if idx < 0 {
			names = append(names, encoding.DecodeName(data))
			break
		}
		names = append(names, encoding.DecodeName(data[:idx]))
		data = data[idx+1:]
	}
	return names
}

// DecodeTexParams decodes an MTXP payload.
func DecodeTexParams(data []byte) ([]TexParam, error) {
	if len(data)%texParamSize != 0 {
		return nil, fmt.Errorf("%w: texture params size %d is not a multiple of %d",
			ErrMalformedChunk, len(data), texParamSize)
	}

	params := make([]TexParam, len(data)/texParamSize)
	for i := range params {
		entry := data[i*texParamSize:]
		params[i] = TexParam{
			Flags:  binary.LittleEndian.Uint32(entry[0:]),
			Height: math.Float32frombits(binary.LittleEndian.Uint32(entry[4:])),
			Offset: math.Float32frombits(binary.LittleEndian.Uint32(entry[8:])),
		}
	}
	return params, nil
}

// DecodeUint32Array decodes a payload of little-endian uint32 values, such as
// the MHID and MDID file ID lists.
func DecodeUint32Array(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: uint32 array size %d is not a multiple of 4",
			ErrMalformedChunk, len(data))
	}

	values := make([]uint32, len(data)/4)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return values, nil
}
