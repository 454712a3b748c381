// Package adt provides decoding for World of Warcraft ADT terrain tile files.
//
// Only the texture split file (tex0) is covered: the chunks that describe the
// texture layers of a tile. Geometry, shadow and liquid data are skipped.
package adt

// Tag is a chunk identifier in its human-readable form, e.g. "MVER".
//
// On disk the four bytes are stored reversed ("REVM"), because the format was
// written as a little-endian uint32 four-character code.
type Tag [4]byte

// MakeTag builds a Tag from its readable name. Names shorter than four
// characters are padded with zero bytes.
func MakeTag(name string) Tag {
	var t Tag
	copy(t[:], name)
	return t
}

// tagFromWire converts the on-disk byte order to a readable Tag.
func tagFromWire(b []byte) Tag {
	return Tag{b[3], b[2], b[1], b[0]}
}

// Wire returns the tag in on-disk byte order.
func (t Tag) Wire() [4]byte {
	return [4]byte{t[3], t[2], t[1], t[0]}
}

// String returns the readable name.
func (t Tag) String() string {
	return string(t[:])
}

// Chunk tags found in tex0 files.
var (
	TagMVER = MakeTag("MVER") // format version
	TagMTEX = MakeTag("MTEX") // texture filenames
	TagMTXP = MakeTag("MTXP") // texture shading parameters
	TagMHID = MakeTag("MHID") // height texture file IDs
	TagMDID = MakeTag("MDID") // diffuse texture file IDs
	TagMCNK = MakeTag("MCNK") // per-cell layer data
	TagMAMP = MakeTag("MAMP") // texture amplifier
)
