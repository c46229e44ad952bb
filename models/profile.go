package models

import (
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// CredentialKind defines how a ConnectionProfile authenticates.
type CredentialKind int

const (
	// CredentialPassword authenticates with a plain password.
	CredentialPassword CredentialKind = 1

	// CredentialKeyFile authenticates with a private key file (SFTP only).
	// Secret holds the optional key passphrase.
	CredentialKeyFile CredentialKind = 2
)

// Credential is the secret material of a connection profile. It exists in
// plain form only inside an unlocked vault handle; on disk it is part of the
// encrypted payload and never appears outside the ciphertext.
type Credential struct {
	// Kind selects the authentication method.
	Kind CredentialKind `json:"kind"`

	// Secret is the password, or the key passphrase when Kind is
	// CredentialKeyFile. Never logged, never serialized unencrypted.
	Secret string `json:"secret"`

	// KeyFile is the path to the private key file for CredentialKeyFile.
	KeyFile string `json:"key_file,omitempty"`
}

// ConnectionProfile describes one saved remote server connection. Profiles
// are owned by the vault store: they are created in the site manager,
// mutated on edit or last-used update, and removed by explicit action.
type ConnectionProfile struct {
	// ID is the stable unique identifier of the profile.
	ID uuid.UUID `json:"id"`

	// Name is the human-readable display name (e.g. "home-nas").
	Name string `json:"name"`

	// Protocol selects the session adapter variant.
	Protocol Protocol `json:"protocol"`

	// Host is the server hostname or IP address.
	Host string `json:"host"`

	// Port is the server TCP port. Zero means the protocol default.
	Port int `json:"port"`

	// Username is the login name.
	Username string `json:"username"`

	// Credential holds the secret authentication material.
	Credential Credential `json:"credential"`

	// StartPath is the optional remote directory to open after connect.
	StartPath string `json:"start_path,omitempty"`

	// CreatedAt is when the profile was first saved.
	CreatedAt time.Time `json:"created_at"`

	// LastUsedAt is the last successful connect, zero if never used.
	LastUsedAt time.Time `json:"last_used_at,omitzero"`
}

// Address returns the dialable host:port, applying the protocol default
// port when none is set.
func (p ConnectionProfile) Address() string {
	port := p.Port
	if port == 0 {
		port = p.Protocol.DefaultPort()
	}
	return net.JoinHostPort(p.Host, strconv.Itoa(port))
}

// RemoteFile represents a single remote directory entry.
type RemoteFile struct {
	// Name is the base name of the entry.
	Name string `json:"name"`

	// Path is the full remote path.
	Path string `json:"path"`

	// Size is the file size in bytes, zero for directories.
	Size int64 `json:"size"`

	// IsDir reports whether the entry is a directory.
	IsDir bool `json:"is_dir"`

	// ModTime is the last modification time when the server reports one.
	ModTime time.Time `json:"mod_time,omitzero"`
}

// NewID returns a time-ordered v7 UUID, falling back to v4 if the
// monotonic source fails.
func NewID() uuid.UUID {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v7
}
