package server

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"reelsync/internal/services"
)

// Opener hands a file to the desktop environment.
type Opener func(ctx context.Context, path string) error

// SystemOpener launches the platform file opener and does not wait for it.
func SystemOpener(_ context.Context, path string) error {
	name, args, err := openCommand(runtime.GOOS, path)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func openCommand(goos, path string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	default:
		return "", nil, services.Wrap(services.ErrUnsupported, "server", "open file",
			"no file opener for "+goos, nil)
	}
}
