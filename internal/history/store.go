// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

// Store writes and reads the transfer history table. It implements the
// queue engine's Recorder interface.
type Store struct {
	*DB
	logger *logger.Logger
}

// NewStore constructs a Store backed by the provided database connection.
func NewStore(db *DB, log *logger.Logger) *Store {
	return &Store{DB: db, logger: log}
}

// Record inserts one finished task. Called once per task, when it reaches a
// terminal state.
func (s *Store) Record(ctx context.Context, task models.TransferTask) error {
	query, args, err := buildInsertTransferQuery(task)
	if err != nil {
		s.logger.Err(err).
			Str("func", "Store.Record").
			Str("task_id", task.ID.String()).
			Msg("failed to create query")
		return err
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "Store.Record").
			Str("task_id", task.ID.String()).
			Msg("failed to insert transfer record")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

// Recent returns the most recently finished transfers, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.TransferTask, error) {
	query, args, err := buildRecentTransfersQuery(uint64(limit))
	if err != nil {
		s.logger.Err(err).Str("func", "Store.Recent").Msg("failed to create query")
		return nil, err
	}
	return s.queryTransfers(ctx, query, args)
}

// ForProfile returns the most recent transfers of one profile, newest first.
func (s *Store) ForProfile(ctx context.Context, profileID uuid.UUID, limit int) ([]models.TransferTask, error) {
	query, args, err := buildProfileTransfersQuery(profileID, uint64(limit))
	if err != nil {
		s.logger.Err(err).Str("func", "Store.ForProfile").Msg("failed to create query")
		return nil, err
	}
	return s.queryTransfers(ctx, query, args)
}

// Purge removes records that finished before the cutoff and reports how
// many were deleted.
func (s *Store) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	query, args, err := buildPurgeTransfersQuery(olderThan)
	if err != nil {
		s.logger.Err(err).Str("func", "Store.Purge").Msg("failed to create query")
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Err(err).Str("func", "Store.Purge").Msg("failed to purge transfer records")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *Store) queryTransfers(ctx context.Context, query string, args []any) ([]models.TransferTask, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Err(err).Str("func", "Store.queryTransfers").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.TransferTask, 0, 50)

	for rows.Next() {
		var (
			task      models.TransferTask
			id        string
			profileID string
			direction int
			state     int
		)

		scanErr := rows.Scan(
			&id,
			&profileID,
			&direction,
			&task.LocalPath,
			&task.RemotePath,
			&task.Size,
			&task.Bytes,
			&state,
			&task.Retries,
			&task.Error,
			&task.EnqueuedAt,
			&task.FinishedAt,
		)
		if scanErr != nil {
			s.logger.Err(scanErr).Str("func", "Store.queryTransfers").Msg("failed to scan transfer row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		if task.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: task id: %w", ErrScanningRow, err)
		}
		if task.ProfileID, err = uuid.Parse(profileID); err != nil {
			return nil, fmt.Errorf("%w: profile id: %w", ErrScanningRow, err)
		}
		task.Direction = models.Direction(direction)
		task.State = models.TransferState(state)

		results = append(results, task)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		s.logger.Err(rowsErr).Str("func", "Store.queryTransfers").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrRowsIteration, rowsErr)
	}

	return results, nil
}
