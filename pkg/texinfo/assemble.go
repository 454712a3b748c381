// Package texinfo collects height texture settings extracted from terrain
// tiles into lookup tables keyed by file data ID and by texture path.
package texinfo

import (
	"path"
	"strings"

	"github.com/Faultbox/heightdump/pkg/adt"
)

// TextureInfo holds the height blending settings of a terrain texture.
type TextureInfo struct {
	Scale        int     `json:"Scale"`
	HeightScale  float32 `json:"HeightScale"`
	HeightOffset float32 `json:"HeightOffset"`
}

// Entry is one texture layer's settings with both of its keys.
type Entry struct {
	Path     string
	HeightID uint32
	Info     TextureInfo
}

// PathResolver resolves file data IDs to paths.
type PathResolver interface {
	Path(id uint32) (string, bool)
}

// Assemble turns the decoded layers of a tex0 file into entries.
//
// The path of a layer is the MTEX name when present, otherwise the diffuse
// texture path with its "_s" specular suffix removed. Layers using the
// no-height encoding, without a height texture ID or with a NaN or infinite
// height value are skipped. See NonFiniteLayers for reporting the latter.
func Assemble(tex *adt.Tex0, resolver PathResolver) []Entry {
	var entries []Entry

	for i, param := range tex.TexParams {
		name := ""
		if id := tex.DiffuseID(i); id != 0 && resolver != nil {
			if p, ok := resolver.Path(id); ok {
				name = DiffuseBaseName(p)
			}
		}
		if mtex, ok := tex.Filename(i); ok {
			name = mtex
		}

		if param.NoHeight() || !param.Finite() {
			continue
		}

		heightID := tex.HeightID(i)
		if heightID == 0 {
			continue
		}

		entries = append(entries, Entry{
			Path:     name,
			HeightID: heightID,
			Info: TextureInfo{
				Scale:        param.Scale(),
				HeightScale:  param.Height,
				HeightOffset: param.Offset,
			},
		})
	}

	return entries
}

// NonFiniteLayers returns the indices of layers that Assemble drops because
// their height scale or offset is NaN or infinite.
func NonFiniteLayers(tex *adt.Tex0) []int {
	var layers []int
	for i, param := range tex.TexParams {
		if !param.Finite() {
			layers = append(layers, i)
		}
	}
	return layers
}

// DiffuseBaseName strips the "_s" suffix that sits right before the
// extension of a specular diffuse texture path.
func DiffuseBaseName(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return p
	}
	base := strings.TrimSuffix(p, ext)
	if !strings.HasSuffix(strings.ToLower(base), "_s") {
		return p
	}
	return base[:len(base)-2] + ext
}
