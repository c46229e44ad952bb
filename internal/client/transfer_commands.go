// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ftp-keeper/internal/queue"
	"github.com/MKhiriev/go-ftp-keeper/internal/session"
	"github.com/MKhiriev/go-ftp-keeper/internal/vault"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

func (a *App) cmdUpload(handle *vault.Handle, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: upload <name> <local> <remote>")
	}
	return a.runTransfer(handle, args[0], models.TransferRequest{
		Direction:  models.Upload,
		LocalPath:  args[1],
		RemotePath: args[2],
	})
}

func (a *App) cmdDownload(handle *vault.Handle, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: download <name> <remote> <local>")
	}
	return a.runTransfer(handle, args[0], models.TransferRequest{
		Direction:  models.Download,
		RemotePath: args[1],
		LocalPath:  args[2],
	})
}

// runTransfer wires a queue engine for one task, watches its events, and
// reports the terminal state. An interrupt cancels the task and waits for
// it to settle instead of killing the process mid-chunk.
func (a *App) runTransfer(handle *vault.Handle, profileName string, req models.TransferRequest) error {
	profile, err := handle.ProfileByName(profileName)
	if err != nil {
		return err
	}
	req.ProfileID = profile.ID

	recorder, closeRecorder, err := a.openRecorder()
	if err != nil {
		return err
	}
	defer closeRecorder()

	dialer := session.NewDialer(a.cfg.Transfers.ConnectTimeout, a.log)
	pool := session.NewPool(dialer, a.cfg.Transfers.SessionsPerProfile, a.cfg.Transfers.SessionIdleTimeout, a.log)
	defer pool.Close()

	var engineRecorder queue.Recorder
	if recorder != nil {
		engineRecorder = recorder
	}
	engine := queue.NewEngine(a.cfg.Transfers, handle, pool, engineRecorder, a.log)
	engine.Start()
	defer engine.Stop()

	events, unsubscribe := engine.Subscribe(256)
	defer unsubscribe()

	task, err := engine.Enqueue(req)
	if err != nil {
		return err
	}

	if err := handle.TouchLastUsed(profile.ID); err != nil {
		a.log.Warn().Err(err).Str("profile", profile.Name).Msg("failed to stamp last used")
	}

	interrupt, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// Cancelling an already settled task is a harmless no-op, so the
		// deferred stop() does not need special casing.
		<-interrupt.Done()
		_ = engine.Cancel(task.ID)
	}()

	a.watchTask(engine, events, task.ID)
	fmt.Fprintln(a.stdout)

	final, err := engine.Task(task.ID)
	if err != nil {
		return err
	}

	switch final.State {
	case models.StateCompleted:
		fmt.Fprintf(a.stdout, "Done: %s (%s)\n", req.RemotePath, formatBytes(final.Bytes))
		return nil
	case models.StateCancelled:
		fmt.Fprintln(a.stdout, "Cancelled")
		return nil
	default:
		return fmt.Errorf("transfer failed after %d retries: %s", final.Retries, final.Error)
	}
}

// watchTask consumes events for one task until it settles, drawing a
// single-line progress indicator. A periodic state check covers the case
// where the terminal event was dropped by a full subscriber buffer.
func (a *App) watchTask(engine *queue.Engine, events <-chan queue.Event, taskID uuid.UUID) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.TaskID != taskID {
				continue
			}

			switch ev.State {
			case models.StateRunning:
				if ev.Total > 0 {
					fmt.Fprintf(a.stdout, "\r%s / %s (%d%%)   ",
						formatBytes(ev.Bytes), formatBytes(ev.Total), ev.Bytes*100/ev.Total)
				} else {
					fmt.Fprintf(a.stdout, "\r%s   ", formatBytes(ev.Bytes))
				}
			case models.StateFailed:
				if !ev.Terminal {
					fmt.Fprintf(a.stdout, "\rRetrying: %s   ", ev.Error)
				}
			}

			if ev.Terminal {
				return
			}

		case <-ticker.C:
			task, err := engine.Task(taskID)
			if err != nil {
				return
			}
			if task.State.Terminal() && !task.FinishedAt.IsZero() {
				return
			}
		}
	}
}

func (a *App) cmdHistory(args []string) error {
	limit := 20
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("usage: history [n]")
		}
		limit = n
	} else if len(args) > 1 {
		return fmt.Errorf("usage: history [n]")
	}

	store, closeStore, err := a.openRecorder()
	if err != nil {
		return err
	}
	defer closeStore()
	if store == nil {
		fmt.Fprintln(a.stdout, "History is disabled (no history DSN configured)")
		return nil
	}

	tasks, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.stdout, "No transfers recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINISHED\tSTATE\tDIRECTION\tBYTES\tREMOTE\tERROR")
	for _, task := range tasks {
		direction := "upload"
		if task.Direction == models.Download {
			direction = "download"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			task.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			task.State, direction, formatBytes(task.Bytes), task.RemotePath, task.Error)
	}
	return w.Flush()
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	if n < 0 {
		return "?"
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
