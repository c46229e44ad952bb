// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/MKhiriev/go-ftp-keeper/internal/session"
	"github.com/MKhiriev/go-ftp-keeper/internal/vault"
)

// withSession dials one session for the named profile, runs fn, and closes
// the session. Interrupts cancel the operation through ctx.
func (a *App) withSession(handle *vault.Handle, name string, fn func(ctx context.Context, sess session.Session) error) error {
	profile, err := handle.ProfileByName(name)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialer := session.NewDialer(a.cfg.Transfers.ConnectTimeout, a.log)
	sess, err := dialer.Dial(ctx, profile)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := handle.TouchLastUsed(profile.ID); err != nil {
		a.log.Warn().Err(err).Str("profile", profile.Name).Msg("failed to stamp last used")
	}

	return fn(ctx, sess)
}

func (a *App) cmdRemoteList(handle *vault.Handle, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: ls <name> [path]")
	}
	path := "."
	if len(args) == 2 {
		path = args[1]
	}

	return a.withSession(handle, args[0], func(ctx context.Context, sess session.Session) error {
		files, err := sess.List(ctx, path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(a.stdout, 2, 4, 2, ' ', 0)
		for _, f := range files {
			kind := "-"
			size := formatBytes(f.Size)
			if f.IsDir {
				kind = "d"
				size = ""
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				kind, size, f.ModTime.Format("2006-01-02 15:04"), f.Name)
		}
		return w.Flush()
	})
}

func (a *App) cmdRemoteMkdir(handle *vault.Handle, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: mkdir <name> <path>")
	}
	return a.withSession(handle, args[0], func(ctx context.Context, sess session.Session) error {
		return sess.Mkdir(ctx, args[1])
	})
}

func (a *App) cmdRemoteRmdir(handle *vault.Handle, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: rmdir <name> <path>")
	}
	return a.withSession(handle, args[0], func(ctx context.Context, sess session.Session) error {
		return sess.RemoveDir(ctx, args[1])
	})
}

func (a *App) cmdRemoteRename(handle *vault.Handle, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: mv <name> <old> <new>")
	}
	return a.withSession(handle, args[0], func(ctx context.Context, sess session.Session) error {
		return sess.Rename(ctx, args[1], args[2])
	})
}

func (a *App) cmdRemoteDelete(handle *vault.Handle, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: del <name> <path>")
	}
	return a.withSession(handle, args[0], func(ctx context.Context, sess session.Session) error {
		return sess.Delete(ctx, args[1])
	})
}
