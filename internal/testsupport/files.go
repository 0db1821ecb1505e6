package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// matroskaMagic starts every placeholder so the files look like real video.
var matroskaMagic = []byte{0x1a, 0x45, 0xdf, 0xa3}

// PlaceMovies lays out placeholder movie files under root the way they sit
// on the NAS share. Names are slash-separated paths relative to root; missing
// folders are created. The full paths come back in the order given.
func PlaceMovies(t testing.TB, root string, names ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create folder for %s: %v", name, err)
		}
		if err := os.WriteFile(path, matroskaMagic, 0o644); err != nil {
			t.Fatalf("place %s: %v", name, err)
		}
		paths = append(paths, path)
	}
	return paths
}
