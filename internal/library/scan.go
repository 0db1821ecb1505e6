package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"reelsync/internal/identification"
	"reelsync/internal/services"
)

// DefaultExtensions are the video containers indexed when none are configured.
var DefaultExtensions = []string{".mkv", ".mp4", ".avi", ".mov"}

// File is one indexed video file.
type File struct {
	Path string
	Name string
	// Normalized is the strict-normalized file name without its extension.
	Normalized string
	// Year is the first 19xx/20xx run in the name, 0 when absent.
	Year int
}

// NewFile indexes a single path.
func NewFile(path string) File {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	year, _ := identification.ExtractYear(name)
	return File{
		Path:       path,
		Name:       name,
		Normalized: identification.NormalizeStrict(stem),
		Year:       year,
	}
}

// Scan walks root and returns every file whose extension is in exts, compared
// case-insensitively. Unreadable subdirectories are skipped.
func Scan(ctx context.Context, root string, exts []string) ([]File, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, services.Wrap(services.ErrConfiguration, "library", "scan", "nas root not configured", nil)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "library", "scan", "nas root unavailable", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "library", "scan", fmt.Sprintf("%s is not a directory", root), nil)
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			return nil
		}
		files = append(files, NewFile(path))
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}
