package wiki

import (
	"path/filepath"
	"strings"
)

// FileMapper names the local file of every page. Subpage separators become
// directories, so "Pacman/Tips" lives in "Pacman/Tips.html".
type FileMapper struct {
	Ext string
}

func NewFileMapper(ext string) *FileMapper {
	if ext == "" {
		ext = ".html"
	}
	return &FileMapper{Ext: ext}
}

// Filename returns the slash-separated file name of title relative to the
// output root.
func (f *FileMapper) Filename(title string) string {
	title, _, _ = strings.Cut(title, "#")
	title = strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	parts := strings.Split(title, "/")
	kept := parts[:0]
	for _, p := range parts {
		// ".." would escape the output root
		if p == "" || p == "." || p == ".." {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "/") + f.Ext
}

// LocalPath returns the file of title relative to relbase, for use in links.
func (f *FileMapper) LocalPath(title, relbase string) string {
	return strings.TrimSuffix(relbase, "/") + "/" + f.Filename(title)
}

// OutputPath returns the absolute file of title below root.
func (f *FileMapper) OutputPath(root, title string) string {
	return filepath.Join(root, filepath.FromSlash(f.Filename(title)))
}
