package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Protocol identifies the wire protocol used to reach a remote file server.
// The value selects which session adapter implementation is dialed.
type Protocol int

const (
	// FTP is plain-text FTP (RFC 959).
	FTP Protocol = 1

	// FTPS is FTP over explicit TLS (AUTH TLS).
	FTPS Protocol = 2

	// SFTP is the SSH File Transfer Protocol.
	SFTP Protocol = 3
)

// String returns the canonical lowercase protocol name.
func (p Protocol) String() string {
	switch p {
	case FTP:
		return "ftp"
	case FTPS:
		return "ftps"
	case SFTP:
		return "sftp"
	default:
		return fmt.Sprintf("protocol(%d)", int(p))
	}
}

// ParseProtocol converts a protocol name ("ftp", "ftps", "sftp",
// case-insensitive) into a Protocol value.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ftp":
		return FTP, nil
	case "ftps":
		return FTPS, nil
	case "sftp":
		return SFTP, nil
	default:
		return 0, fmt.Errorf("unknown protocol %q", s)
	}
}

// DefaultPort returns the conventional port for the protocol.
func (p Protocol) DefaultPort() int {
	switch p {
	case SFTP:
		return 22
	default:
		return 21
	}
}

// MarshalJSON serializes the protocol as its canonical name so the vault
// payload stays readable and stable across versions.
func (p Protocol) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses the canonical name form produced by MarshalJSON.
func (p *Protocol) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := ParseProtocol(s)
	if err != nil {
		return err
	}

	*p = parsed
	return nil
}
