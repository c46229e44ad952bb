// Package session adapts the supported transfer protocols (FTP, FTPS,
// SFTP) behind one Session interface and pools live connections per
// profile.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

// ProtocolDialer selects the concrete adapter by the profile's protocol.
type ProtocolDialer struct {
	connectTimeout time.Duration
	log            *logger.Logger
}

// NewDialer constructs a ProtocolDialer with the given connect timeout.
func NewDialer(connectTimeout time.Duration, log *logger.Logger) *ProtocolDialer {
	return &ProtocolDialer{connectTimeout: connectTimeout, log: log}
}

// Dial opens a session for the profile. The returned error is classified:
// ErrAuthentication, ErrNetwork or ErrProtocol.
func (d *ProtocolDialer) Dial(ctx context.Context, profile models.ConnectionProfile) (Session, error) {
	switch profile.Protocol {
	case models.FTP, models.FTPS:
		return dialFTP(ctx, profile, d.connectTimeout, d.log)
	case models.SFTP:
		return dialSFTP(ctx, profile, d.connectTimeout, d.log)
	default:
		return nil, fmt.Errorf("%w: unsupported protocol %q", ErrProtocol, profile.Protocol)
	}
}
