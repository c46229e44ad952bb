// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package history

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-ftp-keeper/models"
)

// transferColumns is the scan order shared by every SELECT below.
var transferColumns = []string{
	"id",
	"profile_id",
	"direction",
	"local_path",
	"remote_path",
	"size",
	"bytes",
	"state",
	"retries",
	"error",
	"enqueued_at",
	"finished_at",
}

func buildInsertTransferQuery(task models.TransferTask) (string, []any, error) {
	return sq.Insert("transfers").
		Columns(transferColumns...).
		Values(
			task.ID.String(),
			task.ProfileID.String(),
			int(task.Direction),
			task.LocalPath,
			task.RemotePath,
			task.Size,
			task.Bytes,
			int(task.State),
			task.Retries,
			task.Error,
			task.EnqueuedAt,
			task.FinishedAt,
		).
		ToSql()
}

func buildRecentTransfersQuery(limit uint64) (string, []any, error) {
	return sq.Select(transferColumns...).
		From("transfers").
		OrderBy("finished_at DESC").
		Limit(limit).
		ToSql()
}

func buildProfileTransfersQuery(profileID uuid.UUID, limit uint64) (string, []any, error) {
	return sq.Select(transferColumns...).
		From("transfers").
		Where(sq.Eq{"profile_id": profileID.String()}).
		OrderBy("finished_at DESC").
		Limit(limit).
		ToSql()
}

func buildPurgeTransfersQuery(olderThan time.Time) (string, []any, error) {
	return sq.Delete("transfers").
		Where(sq.Lt{"finished_at": olderThan}).
		ToSql()
}
