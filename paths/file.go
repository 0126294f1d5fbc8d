package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteFile renders the paths to name, as SVG or PDF depending on its
// extension.
func (ps *Paths) WriteFile(name string) error {
	var write func(f *os.File) error
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".svg":
		write = func(f *os.File) error { return ps.SVG(f) }
	case ".pdf":
		write = func(f *os.File) error { return ps.PDF(f, 0, 0) }
	default:
		return fmt.Errorf("%s: can't render paths as %q (want .svg or .pdf)", name, ext)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return f.Close()
}
