// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/textproto"
	"strings"
)

// classify maps a raw adapter error onto the package taxonomy so the queue
// engine can decide transient vs terminal without knowing protocols.
// Context cancellation passes through unchanged: a cancelled task is not a
// failed one.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrAuthentication), errors.Is(err, ErrNetwork),
		errors.Is(err, ErrProtocol), errors.Is(err, ErrLocalIO):
		return err
	}

	var proto *textproto.Error
	if errors.As(err, &proto) {
		return fmt.Errorf("%w: %v", classifyReplyCode(proto.Code), err)
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%w: %v", ErrLocalIO, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if isSSHAuthFailure(err) {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	return fmt.Errorf("%w: %v", ErrProtocol, err)
}

// classifyReplyCode buckets an FTP reply code. 4xx replies signal transient
// conditions, 530/532 credential rejection, remaining 5xx permanent refusals.
func classifyReplyCode(code int) error {
	switch {
	case code == 530 || code == 532:
		return ErrAuthentication
	case code >= 400 && code < 500:
		return ErrNetwork
	default:
		return ErrProtocol
	}
}

// isSSHAuthFailure detects the handshake-level credential rejection of
// golang.org/x/crypto/ssh, which surfaces as an opaque error string.
func isSSHAuthFailure(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "ssh: unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain")
}
