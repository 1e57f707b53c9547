package config

import (
	"path/filepath"
	"testing"

	"rtable/common"
)

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		src    string
		dir    string
		format common.OutputFmt
		slug   bool
		want   string
	}{
		{name: "html to model", src: filepath.Join(dir, "doc.html"), format: common.OutputFmtModel, want: filepath.Join(dir, "doc.xml")},
		{name: "other directory", src: filepath.Join(dir, "doc.xml"), dir: "/out", format: common.OutputFmtHtml, want: filepath.Join("/out", "doc.html")},
		{name: "same file", src: filepath.Join(dir, "doc.html"), format: common.OutputFmtHtml, want: filepath.Join(dir, "doc-out.html")},
		{name: "hidden", src: filepath.Join(dir, "..doc.html"), format: common.OutputFmtModel, want: filepath.Join(dir, "doc.xml")},
		{name: "transliterate", src: filepath.Join(dir, "Таблица 1.html"), format: common.OutputFmtModel, slug: true, want: filepath.Join(dir, "tablitsa-1.xml")},
		{name: "keep name", src: filepath.Join(dir, "Таблица 1.html"), format: common.OutputFmtModel, want: filepath.Join(dir, "Таблица 1.xml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.src, tt.dir, tt.format, tt.slug); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
