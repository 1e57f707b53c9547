package config

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"rtable/common"
)

// OutputPath returns name of the file to write result of processing src to.
// Empty dir means directory of src. Result never overwrites src.
func OutputPath(src, dir string, format common.OutputFmt, transliterate bool) string {
	if dir == "" {
		dir = filepath.Dir(src)
	}
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if transliterate {
		base = slug.Make(base)
	}
	base = cleanFileName(base)
	out := filepath.Join(dir, base+format.Ext())
	if same(out, src) {
		out = filepath.Join(dir, base+"-out"+format.Ext())
	}
	return out
}

func same(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
