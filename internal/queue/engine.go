// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package queue schedules file transfers: FIFO dispatch under a global
// concurrency limit, retry with exponential backoff for transient network
// failures, pause/resume gating, and per-task cancellation. Progress and
// state transitions fan out to subscribers as events.
package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ftp-keeper/internal/config"
	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/internal/session"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

// Engine owns the transfer queue. Tasks enter via Enqueue, run on at most
// cfg.Concurrency workers in arrival order, and settle into a terminal
// state exactly once. The engine never drops a task silently: every
// transition is observable through Subscribe and Snapshot.
type Engine struct {
	cfg      config.Transfers
	profiles ProfileSource
	pool     SessionPool
	recorder Recorder
	log      *logger.Logger
	events   *broadcaster

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sem    chan struct{}
	wake   chan struct{}

	mu      sync.Mutex
	tasks   map[uuid.UUID]*taskEntry
	pending []uuid.UUID
	resume  chan struct{} // non-nil while paused, closed on resume
	stopped bool
}

type taskEntry struct {
	task models.TransferTask

	// cancel is non-nil while the task is running or waiting out a retry
	// backoff. Queued tasks are cancelled by removal from pending instead.
	cancel context.CancelFunc
}

// NewEngine wires a transfer engine. recorder may be nil to disable
// history.
func NewEngine(cfg config.Transfers, profiles ProfileSource, pool SessionPool, recorder Recorder, log *logger.Logger) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		cfg:      cfg,
		profiles: profiles,
		pool:     pool,
		recorder: recorder,
		log:      log,
		events:   newBroadcaster(),
		ctx:      ctx,
		cancel:   cancel,
		sem:      make(chan struct{}, cfg.Concurrency),
		wake:     make(chan struct{}, 1),
		tasks:    make(map[uuid.UUID]*taskEntry),
	}
}

// Start launches the dispatcher. Call exactly once.
func (e *Engine) Start() {
	e.wg.Add(1)
	go e.dispatch()
	e.log.Info().Int("concurrency", e.cfg.Concurrency).Msg("transfer engine started")
}

// Stop cancels every in-flight and waiting task and blocks until all
// workers have settled. The engine cannot be restarted.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	if e.resume != nil {
		close(e.resume)
		e.resume = nil
	}
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
	e.events.closeAll()
	e.log.Info().Msg("transfer engine stopped")
}

// Enqueue appends a transfer to the queue and returns the created task.
// Duplicate requests are not coalesced: each call is its own task.
func (e *Engine) Enqueue(req models.TransferRequest) (models.TransferTask, error) {
	task := models.TransferTask{
		ID:         models.NewID(),
		ProfileID:  req.ProfileID,
		Direction:  req.Direction,
		LocalPath:  req.LocalPath,
		RemotePath: req.RemotePath,
		Size:       models.SizeUnknown,
		State:      models.StateQueued,
		EnqueuedAt: time.Now().UTC(),
	}

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return models.TransferTask{}, ErrEngineStopped
	}
	e.tasks[task.ID] = &taskEntry{task: task}
	e.pending = append(e.pending, task.ID)
	e.mu.Unlock()

	e.publish(task)
	e.wakeDispatcher()
	return task, nil
}

// Task returns the current state of one task.
func (e *Engine) Task(id uuid.UUID) (models.TransferTask, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.tasks[id]
	if !ok {
		return models.TransferTask{}, ErrUnknownTask
	}
	return entry.task, nil
}

// Snapshot returns all known tasks ordered by enqueue time. Combined with
// Subscribe it lets a listener resynchronize after dropped events.
func (e *Engine) Snapshot() []models.TransferTask {
	e.mu.Lock()
	out := make([]models.TransferTask, 0, len(e.tasks))
	for _, entry := range e.tasks {
		out = append(out, entry.task)
	}
	e.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].EnqueuedAt.Equal(out[j].EnqueuedAt) {
			return out[i].EnqueuedAt.Before(out[j].EnqueuedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Subscribe registers an event listener. Only events emitted after the call
// are delivered; a full buffer drops events rather than stalling transfers.
func (e *Engine) Subscribe(buffer int) (<-chan Event, func()) {
	return e.events.subscribe(buffer)
}

// Cancel stops one task. A queued task settles immediately; a running or
// retry-waiting task is interrupted at its next chunk boundary and settles
// from its worker.
func (e *Engine) Cancel(id uuid.UUID) error {
	e.mu.Lock()
	entry, ok := e.tasks[id]
	if !ok {
		e.mu.Unlock()
		return ErrUnknownTask
	}

	if entry.cancel != nil {
		cancel := entry.cancel
		e.mu.Unlock()
		cancel()
		return nil
	}

	if entry.task.State != models.StateQueued {
		e.mu.Unlock()
		return ErrTaskFinished
	}

	e.removePendingLocked(id)
	entry.task.State = models.StateCancelled
	entry.task.FinishedAt = time.Now().UTC()
	task := entry.task
	e.mu.Unlock()

	e.publish(task)
	e.finalize(task)
	return nil
}

// PauseAll stops dispatching new tasks and suspends running transfers at
// their next chunk boundary. Sessions stay leased so ResumeAll continues
// without reconnecting.
func (e *Engine) PauseAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resume == nil && !e.stopped {
		e.resume = make(chan struct{})
		e.log.Info().Msg("transfers paused")
	}
}

// ResumeAll lifts a pause.
func (e *Engine) ResumeAll() {
	e.mu.Lock()
	if e.resume != nil {
		close(e.resume)
		e.resume = nil
		e.log.Info().Msg("transfers resumed")
	}
	e.mu.Unlock()
	e.wakeDispatcher()
}

func (e *Engine) wakeDispatcher() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) dispatch() {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case <-e.wake:
		}
		for e.dispatchNext() {
		}
	}
}

// dispatchNext starts the oldest queued task if one exists, the engine is
// not paused, and a worker slot is free. Reports whether it started one.
func (e *Engine) dispatchNext() bool {
	e.mu.Lock()
	runnable := !e.stopped && e.resume == nil && len(e.pending) > 0
	e.mu.Unlock()
	if !runnable {
		return false
	}

	select {
	case e.sem <- struct{}{}:
	case <-e.ctx.Done():
		return false
	}

	e.mu.Lock()
	if e.stopped || e.resume != nil || len(e.pending) == 0 {
		e.mu.Unlock()
		<-e.sem
		return false
	}
	id := e.pending[0]
	e.pending = e.pending[1:]
	entry := e.tasks[id]
	ctx, cancel := context.WithCancel(e.ctx)
	entry.cancel = cancel
	entry.task.State = models.StateRunning
	task := entry.task
	e.mu.Unlock()

	e.publish(task)
	e.wg.Add(1)
	go e.run(ctx, cancel, id)
	return true
}

func (e *Engine) run(ctx context.Context, cancel context.CancelFunc, id uuid.UUID) {
	defer e.wg.Done()
	defer cancel()
	defer func() {
		<-e.sem
		e.wakeDispatcher()
	}()

	err := e.execute(ctx, id)
	e.settle(id, err)
}

// execute resolves the profile, leases a session, and moves the bytes. The
// lease goes back damaged when the failure suggests the connection itself
// is unusable.
func (e *Engine) execute(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	task := e.tasks[id].task
	e.mu.Unlock()

	profile, err := e.profiles.Profile(task.ProfileID)
	if err != nil {
		return fmt.Errorf("resolve profile: %w", err)
	}

	lease, err := e.pool.Acquire(ctx, profile)
	if err != nil {
		return err
	}
	damaged := false
	defer func() { e.pool.Release(lease, damaged) }()

	total, err := e.totalSize(ctx, lease, task)
	if err != nil {
		damaged = errors.Is(err, session.ErrNetwork)
		return err
	}
	e.setTotal(id, total)

	progress := func(bytes int64) {
		e.updateProgress(id, bytes)
		// Pause gate. Blocking here suspends the transfer between chunks
		// while the session stays leased. Cancellation during a pause
		// surfaces through ctx on the next chunk read.
		_ = e.waitResume(ctx)
	}

	switch task.Direction {
	case models.Upload:
		err = lease.Upload(ctx, task.LocalPath, task.RemotePath, 0, progress)
	case models.Download:
		err = lease.Download(ctx, task.RemotePath, task.LocalPath, 0, progress)
	default:
		err = fmt.Errorf("%w: unknown direction %d", session.ErrProtocol, task.Direction)
	}
	if err != nil {
		damaged = errors.Is(err, session.ErrNetwork) || ctx.Err() != nil
		return err
	}
	return nil
}

// totalSize determines the expected byte count: local stat for uploads,
// server-reported size for downloads, models.SizeUnknown when the server
// cannot say.
func (e *Engine) totalSize(ctx context.Context, sess session.Session, task models.TransferTask) (int64, error) {
	switch task.Direction {
	case models.Upload:
		info, err := os.Stat(task.LocalPath)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", session.ErrLocalIO, err)
		}
		return info.Size(), nil
	case models.Download:
		return sess.Size(ctx, task.RemotePath)
	default:
		return models.SizeUnknown, nil
	}
}

// settle records the outcome of one attempt: terminal success, terminal
// failure, cancellation, or a scheduled retry when the failure was
// transient and the retry budget allows another attempt.
func (e *Engine) settle(id uuid.UUID, err error) {
	now := time.Now().UTC()

	e.mu.Lock()
	entry := e.tasks[id]
	entry.cancel = nil

	switch {
	case err == nil:
		entry.task.State = models.StateCompleted
		entry.task.Error = ""
		entry.task.FinishedAt = now

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		entry.task.State = models.StateCancelled
		entry.task.Error = ""
		entry.task.FinishedAt = now

	case errors.Is(err, session.ErrNetwork) && entry.task.Retries < e.cfg.MaxRetries:
		entry.task.State = models.StateFailed
		entry.task.Error = err.Error()
		rctx, rcancel := context.WithCancel(e.ctx)
		entry.cancel = rcancel
		task := entry.task
		delay := backoffDelay(e.cfg.RetryBaseDelay, e.cfg.RetryMaxDelay, task.Retries)
		e.mu.Unlock()

		e.publish(task)
		e.log.Warn().
			Str("task_id", id.String()).
			Int("retries", task.Retries).
			Dur("delay", delay).
			Str("error", task.Error).
			Msg("transient failure, retry scheduled")

		e.wg.Add(1)
		go e.retryLater(rctx, rcancel, id, delay)
		return

	default:
		entry.task.State = models.StateFailed
		entry.task.Error = err.Error()
		entry.task.FinishedAt = now
	}

	task := entry.task
	e.mu.Unlock()

	e.publish(task)
	e.finalize(task)
}

// retryLater waits out the backoff delay and requeues the task, unless it
// is cancelled or the engine stops first.
func (e *Engine) retryLater(ctx context.Context, cancel context.CancelFunc, id uuid.UUID, delay time.Duration) {
	defer e.wg.Done()
	defer cancel()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		e.mu.Lock()
		entry := e.tasks[id]
		entry.cancel = nil
		entry.task.State = models.StateCancelled
		entry.task.FinishedAt = time.Now().UTC()
		task := entry.task
		e.mu.Unlock()

		e.publish(task)
		e.finalize(task)
		return
	}

	e.mu.Lock()
	entry := e.tasks[id]
	entry.cancel = nil
	entry.task.Retries++
	entry.task.State = models.StateQueued
	e.pending = append(e.pending, id)
	task := entry.task
	e.mu.Unlock()

	e.publish(task)
	e.wakeDispatcher()
}

// finalize runs the side effects of a terminal state: history recording and
// partial-file cleanup for failed or cancelled downloads.
func (e *Engine) finalize(task models.TransferTask) {
	if e.cfg.DeletePartial &&
		task.Direction == models.Download &&
		task.State != models.StateCompleted &&
		task.Bytes > 0 {
		if err := os.Remove(task.LocalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.log.Warn().Str("path", task.LocalPath).Err(err).Msg("partial download cleanup failed")
		}
	}

	if e.recorder == nil {
		return
	}
	// History survives engine shutdown, so recording does not use e.ctx.
	if err := e.recorder.Record(context.Background(), task); err != nil {
		e.log.Warn().Str("task_id", task.ID.String()).Err(err).Msg("history record failed")
	}
}

func (e *Engine) setTotal(id uuid.UUID, total int64) {
	e.mu.Lock()
	entry := e.tasks[id]
	entry.task.Size = total
	task := entry.task
	e.mu.Unlock()
	e.publish(task)
}

func (e *Engine) updateProgress(id uuid.UUID, bytes int64) {
	e.mu.Lock()
	entry := e.tasks[id]
	entry.task.Bytes = bytes
	task := entry.task
	e.mu.Unlock()
	e.publish(task)
}

// waitResume blocks while the engine is paused.
func (e *Engine) waitResume(ctx context.Context) error {
	for {
		e.mu.Lock()
		ch := e.resume
		e.mu.Unlock()
		if ch == nil {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (e *Engine) publish(task models.TransferTask) {
	// A task waiting out a retry backoff is Failed without FinishedAt; only
	// settled tasks carry both.
	e.events.publish(Event{
		TaskID:   task.ID,
		State:    task.State,
		Bytes:    task.Bytes,
		Total:    task.Size,
		Error:    task.Error,
		Terminal: task.State.Terminal() && !task.FinishedAt.IsZero(),
		Time:     time.Now().UTC(),
	})
}

func (e *Engine) removePendingLocked(id uuid.UUID) {
	for i, pid := range e.pending {
		if pid == id {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			return
		}
	}
}

// backoffDelay doubles the base delay per prior retry and caps it.
func backoffDelay(base, max time.Duration, retries int) time.Duration {
	if base <= 0 {
		return 0
	}
	if retries > 30 {
		return max
	}
	d := base << uint(retries)
	if d <= 0 || d > max {
		return max
	}
	return d
}
