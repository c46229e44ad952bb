package queue

//go:generate mockgen -source=interfaces.go -destination=../mock/queue_mock.go -package=mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ftp-keeper/internal/session"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

// ProfileSource resolves a profile ID to its connection details at dispatch
// time. The unlocked vault handle implements it, which keeps credentials out
// of the queued task records.
type ProfileSource interface {
	Profile(id uuid.UUID) (models.ConnectionProfile, error)
}

// SessionPool leases protocol sessions with per-profile capping. Implemented
// by session.Pool.
type SessionPool interface {
	Acquire(ctx context.Context, profile models.ConnectionProfile) (*session.Lease, error)
	Release(l *session.Lease, damaged bool)
}

// Recorder persists finished transfers. A nil Recorder disables history.
type Recorder interface {
	Record(ctx context.Context, task models.TransferTask) error
}
