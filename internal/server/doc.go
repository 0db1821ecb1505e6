// Package server exposes the small HTTP service that opens a catalog entry's
// movie file on the host.
//
// Notion pages link to /play/{movieID}; the handler reads the page's NAS path,
// checks that the file exists, and hands it to the desktop opener. A flock
// guard keeps a second instance from binding the same port.
package server
