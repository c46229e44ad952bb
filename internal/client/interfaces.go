// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the requested command and blocks until it finishes.
	// args is the command line after the flags: the subcommand and its
	// positional arguments.
	Run(args []string) error
}
