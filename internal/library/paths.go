package library

import (
	"path"
	"path/filepath"
	"strings"

	"reelsync/internal/config"
)

// Layout describes how the scanned share is reached from other hosts.
type Layout struct {
	// Root is where the share is mounted on the scanning host.
	Root string
	// LinuxRoot is the same directory as seen on the NAS itself.
	LinuxRoot string
	// SMBHost and SMBSharePrefix build file:// URLs for desktop clients.
	SMBHost        string
	SMBSharePrefix string
}

// LayoutFromConfig copies the NAS section of the config.
func LayoutFromConfig(nas config.NAS) Layout {
	return Layout{
		Root:           nas.Root,
		LinuxRoot:      nas.LinuxRoot,
		SMBHost:        nas.SMBHost,
		SMBSharePrefix: nas.SMBSharePrefix,
	}
}

// Paths are the informational locations of a matched file.
type Paths struct {
	Linux string `json:"linux_path"`
	SMB   string `json:"smb_url"`
}

// BuildPaths maps a scanned file onto the NAS and SMB views of the share.
// Empty roots or hosts leave the matching field empty.
func (l Layout) BuildPaths(file File) Paths {
	rel, err := filepath.Rel(l.Root, file.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = file.Name
	}
	rel = strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/")

	var out Paths
	if root := strings.TrimRight(l.LinuxRoot, "/"); root != "" {
		out.Linux = root + "/" + rel
	}
	if host := strings.Trim(l.SMBHost, "/"); host != "" {
		share := strings.Trim(l.SMBSharePrefix, "/")
		out.SMB = "file://" + path.Join(host, share, rel)
	}
	return out
}
