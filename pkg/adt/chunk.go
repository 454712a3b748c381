package adt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ADT format errors.
var (
	ErrTruncatedInput     = errors.New("truncated ADT data")
	ErrUnsupportedVersion = errors.New("unsupported ADT version")
	ErrMalformedChunk     = errors.New("malformed ADT chunk")
)

// chunkHeaderSize is the tag plus the uint32 payload size.
const chunkHeaderSize = 8

// Chunk is a single tagged record of a chunked file.
type Chunk struct {
	Tag    Tag
	Size   uint32
	Offset int    // offset of the chunk header within the file
	Data   []byte // payload, exactly Size bytes
}

// ChunkReader walks the chunks of an in-memory file in order.
//
// The cursor always advances by the declared chunk size, regardless of how
// much of the payload the caller decodes.
type ChunkReader struct {
	data []byte
	pos  int
}

// NewChunkReader returns a reader positioned at the start of data.
func NewChunkReader(data []byte) *ChunkReader {
	return &ChunkReader{data: data}
}

// Offset returns the position of the next chunk header.
func (r *ChunkReader) Offset() int {
	return r.pos
}

// Next returns the next chunk. It returns io.EOF once the cursor sits exactly
// at the end of the buffer, and ErrTruncatedInput when a header or payload
// would read past it. After an error the reader does not advance.
func (r *ChunkReader) Next() (Chunk, error) {
	remaining := len(r.data) - r.pos
	if remaining == 0 {
		return Chunk{}, io.EOF
	}
	if remaining < chunkHeaderSize {
		return Chunk{}, fmt.Errorf("%w: chunk header at offset %d needs %d bytes, %d left",
			ErrTruncatedInput, r.pos, chunkHeaderSize, remaining)
	}

	tag := tagFromWire(r.data[r.pos : r.pos+4])
	size := binary.LittleEndian.Uint32(r.data[r.pos+4:])

	start := r.pos + chunkHeaderSize
	if uint64(size) > uint64(len(r.data)-start) {
		return Chunk{}, fmt.Errorf("%w: chunk %s at offset %d declares %d bytes, %d left",
			ErrTruncatedInput, tag, r.pos, size, len(r.data)-start)
	}

	end := start + int(size)
	chunk := Chunk{
		Tag:    tag,
		Size:   size,
		Offset: r.pos,
		Data:   r.data[start:end:end],
	}
	r.pos = end
	return chunk, nil
}
