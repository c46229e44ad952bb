// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client application runtime.
//
// It wires configuration, the encrypted profile vault, protocol sessions,
// and the transfer queue into a single process lifecycle and dispatches
// the user's subcommand.
package client
