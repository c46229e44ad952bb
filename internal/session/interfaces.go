package session

//go:generate mockgen -source=interfaces.go -destination=../mock/session_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-ftp-keeper/models"
)

// Session is one live protocol connection bound to a profile. It executes
// exactly one operation at a time and owns no scheduling logic: the queue
// engine decides what runs, the session only moves bytes and reports
// progress between chunks.
//
// The progress callback receives the total bytes moved so far, including
// the resume offset, and is invoked between chunk I/O calls. These are the
// only suspension points, so cancellation via ctx takes effect within one
// chunk.
type Session interface {
	// List returns the entries of a remote directory, directories first,
	// then by name.
	List(ctx context.Context, path string) ([]models.RemoteFile, error)

	// Size returns the byte size of a remote file, or models.SizeUnknown
	// with a nil error when the server cannot report it.
	Size(ctx context.Context, path string) (int64, error)

	// Upload copies a local file to the remote path, starting at offset
	// (0 for a full transfer; a non-zero offset resumes where the
	// protocol supports it).
	Upload(ctx context.Context, localPath, remotePath string, offset int64, progress func(bytes int64)) error

	// Download copies a remote file to the local path, symmetric to
	// Upload.
	Download(ctx context.Context, remotePath, localPath string, offset int64, progress func(bytes int64)) error

	// Delete removes a remote file.
	Delete(ctx context.Context, path string) error

	// Mkdir creates a remote directory.
	Mkdir(ctx context.Context, path string) error

	// RemoveDir removes an empty remote directory.
	RemoveDir(ctx context.Context, path string) error

	// Rename moves a remote file or directory.
	Rename(ctx context.Context, oldPath, newPath string) error

	// Alive cheaply checks whether the connection still works.
	Alive(ctx context.Context) bool

	// Close terminates the connection. Safe to call more than once.
	Close() error
}

// Dialer opens a Session for a profile, selecting the protocol variant by
// profile.Protocol. Connect failures are classified onto the package error
// taxonomy: ErrAuthentication, ErrNetwork or ErrProtocol.
type Dialer interface {
	Dial(ctx context.Context, profile models.ConnectionProfile) (Session, error)
}
