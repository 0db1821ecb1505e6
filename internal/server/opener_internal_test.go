package server

import (
	"errors"
	"testing"

	"reelsync/internal/services"
)

func TestOpenCommand(t *testing.T) {
	cases := map[string]string{"linux": "xdg-open", "darwin": "open", "windows": "rundll32"}
	for goos, want := range cases {
		name, args, err := openCommand(goos, "/nas/film.mkv")
		if err != nil || name != want || args[len(args)-1] != "/nas/film.mkv" {
			t.Fatalf("%s: got %q %v %v", goos, name, args, err)
		}
	}
	if _, _, err := openCommand("plan9", "/nas/film.mkv"); !errors.Is(err, services.ErrUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
}
