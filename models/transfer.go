package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Direction defines which way a transfer moves data.
type Direction int

const (
	// Upload moves a local file to the remote server.
	Upload Direction = 1

	// Download moves a remote file to the local filesystem.
	Download Direction = 2
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Upload:
		return "upload"
	case Download:
		return "download"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// TransferState is the lifecycle state of a transfer task.
//
// Legal transitions: Queued -> Running -> {Completed | Failed | Cancelled},
// plus Running -> Queued when the engine re-queues a transient failure for
// retry. Completed, Failed and Cancelled are terminal.
type TransferState int

const (
	// StateQueued means the task is waiting for a worker slot.
	StateQueued TransferState = 1

	// StateRunning means a worker is executing the transfer.
	StateRunning TransferState = 2

	// StateCompleted means the transfer finished successfully. Terminal.
	StateCompleted TransferState = 3

	// StateFailed means the transfer failed terminally or exhausted its
	// retries. Terminal.
	StateFailed TransferState = 4

	// StateCancelled means the task was cancelled by the caller. Terminal.
	StateCancelled TransferState = 5
)

// String returns the lowercase state name.
func (s TransferState) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the state ends the task's lifecycle.
func (s TransferState) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// SizeUnknown marks a transfer whose total byte size the server did not
// report. Completion is then signaled by the adapter's end-of-stream, not
// by reaching a byte count.
const SizeUnknown int64 = -1

// TransferRequest is what a caller submits to the queue engine.
type TransferRequest struct {
	// ProfileID references the connection profile by id. The reference is
	// weak: the queue never owns profiles.
	ProfileID uuid.UUID `json:"profile_id"`

	// Direction selects upload or download.
	Direction Direction `json:"direction"`

	// LocalPath is the local file path.
	LocalPath string `json:"local_path"`

	// RemotePath is the remote file path.
	RemotePath string `json:"remote_path"`
}

// TransferTask is the queue engine's view of one file transfer. The engine
// owns the task for its lifetime: created on enqueue, finished when it
// reaches a terminal state.
type TransferTask struct {
	// ID uniquely identifies the task.
	ID uuid.UUID `json:"id"`

	// ProfileID references the connection profile used for the transfer.
	ProfileID uuid.UUID `json:"profile_id"`

	// Direction selects upload or download.
	Direction Direction `json:"direction"`

	// LocalPath is the local file path.
	LocalPath string `json:"local_path"`

	// RemotePath is the remote file path.
	RemotePath string `json:"remote_path"`

	// Size is the total byte size, or SizeUnknown.
	Size int64 `json:"size"`

	// Bytes is the number of bytes transferred so far.
	Bytes int64 `json:"bytes"`

	// State is the current lifecycle state.
	State TransferState `json:"state"`

	// Retries counts how many times the task has been re-queued after a
	// transient failure.
	Retries int `json:"retries"`

	// Error is the last failure message, empty while no failure occurred.
	// Error strings reference the task and profile by id only and never
	// contain credential material.
	Error string `json:"error,omitempty"`

	// EnqueuedAt is when the task was admitted.
	EnqueuedAt time.Time `json:"enqueued_at"`

	// FinishedAt is when the task reached a terminal state.
	FinishedAt time.Time `json:"finished_at,omitzero"`
}
