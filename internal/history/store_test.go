package history

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db := &DB{DB: conn, logger: logger.Nop()}
	return NewStore(db, logger.Nop()), mock
}

func finishedTask() models.TransferTask {
	return models.TransferTask{
		ID:         models.NewID(),
		ProfileID:  models.NewID(),
		Direction:  models.Upload,
		LocalPath:  "/home/alice/report.pdf",
		RemotePath: "/inbox/report.pdf",
		Size:       2048,
		Bytes:      2048,
		State:      models.StateCompleted,
		Retries:    1,
		EnqueuedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC),
	}
}

func TestStore_Record(t *testing.T) {
	store, mock := newMockStore(t)
	task := finishedTask()

	query, _, err := buildInsertTransferQuery(task)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(
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
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Record(context.Background(), task))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record_ExecError(t *testing.T) {
	store, mock := newMockStore(t)
	task := finishedTask()

	mock.ExpectExec("INSERT INTO transfers").
		WillReturnError(errors.New("disk full"))

	err := store.Record(context.Background(), task)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func transferRows(tasks ...models.TransferTask) *sqlmock.Rows {
	rows := sqlmock.NewRows(transferColumns)
	for _, task := range tasks {
		rows.AddRow(
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
		)
	}
	return rows
}

func TestStore_Recent(t *testing.T) {
	store, mock := newMockStore(t)
	first := finishedTask()
	second := finishedTask()
	second.State = models.StateFailed
	second.Error = "network failure: connection reset"

	query, _, err := buildRecentTransfersQuery(10)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(transferRows(first, second))

	got, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, first.ProfileID, got[0].ProfileID)
	assert.Equal(t, models.StateCompleted, got[0].State)
	assert.Equal(t, models.StateFailed, got[1].State)
	assert.Equal(t, second.Error, got[1].Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Recent_ScanError(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows(transferColumns).AddRow(
		"not-a-uuid", "also-not-a-uuid", 1, "l", "r", 0, 0, 1, 0, "",
		time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	_, err := store.Recent(context.Background(), 10)
	assert.ErrorIs(t, err, ErrScanningRow)
}

func TestStore_ForProfile(t *testing.T) {
	store, mock := newMockStore(t)
	task := finishedTask()

	query, _, err := buildProfileTransfersQuery(task.ProfileID, 5)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(task.ProfileID.String()).
		WillReturnRows(transferRows(task))

	got, err := store.ForProfile(context.Background(), task.ProfileID, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, task.ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Purge(t *testing.T) {
	store, mock := newMockStore(t)
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	query, _, err := buildPurgeTransfersQuery(cutoff)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	deleted, err := store.Purge(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
