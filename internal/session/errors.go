package session

import "errors"

var (
	// ErrAuthentication means the server rejected the profile's credentials.
	ErrAuthentication = errors.New("authentication rejected")

	// ErrNetwork means the connection could not be established or was lost.
	// This is the only transient kind: the queue engine retries it.
	ErrNetwork = errors.New("network failure")

	// ErrProtocol means the server refused or could not complete the
	// operation (missing file, permission denied, unexpected reply).
	ErrProtocol = errors.New("protocol failure")

	// ErrLocalIO means the local filesystem side of a transfer failed.
	ErrLocalIO = errors.New("local file failure")

	// ErrPoolClosed is returned by Pool.Acquire after Pool.Close.
	ErrPoolClosed = errors.New("session pool closed")
)
