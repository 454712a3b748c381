package texinfo

import (
	"strings"

	"github.com/Faultbox/heightdump/pkg/listfile"
)

// DefaultInfo is used for height textures that no tile references with
// explicit settings. The values are a best guess.
var DefaultInfo = TextureInfo{Scale: 1, HeightScale: 6, HeightOffset: 1}

// ApplyDefaults adds DefaultInfo for height textures missing from the store.
//
// Each entry is a height texture; its diffuse path is the entry path with
// heightSuffix replaced by the extension. The path and ID keys are filled
// independently and existing values are never overwritten. It returns the
// number of keys added.
func ApplyDefaults(s *Store, heightTextures []listfile.Entry, heightSuffix string) int {
	added := 0
	for _, e := range heightTextures {
		if !strings.HasSuffix(strings.ToLower(e.Path), strings.ToLower(heightSuffix)) {
			continue
		}
		base := diffusePath(e.Path, heightSuffix)

		if s.insertPathIfMissing(base, DefaultInfo) {
			added++
		}
		if s.insertIDIfMissing(e.ID, DefaultInfo) {
			added++
		}
	}
	return added
}

// diffusePath maps "foo_h.blp" to "foo.blp" for the suffix "_h.blp".
func diffusePath(p, heightSuffix string) string {
	ext := ""
	if i := strings.LastIndexByte(heightSuffix, '.'); i >= 0 {
		ext = heightSuffix[i:]
	}
	return p[:len(p)-len(heightSuffix)] + ext
}
