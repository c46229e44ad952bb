// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package history

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-ftp-keeper/models"
)

func Test_buildInsertTransferQuery_SQLContainsParts(t *testing.T) {
	task := models.TransferTask{
		ID:         models.NewID(),
		ProfileID:  models.NewID(),
		Direction:  models.Download,
		LocalPath:  "/tmp/a.bin",
		RemotePath: "/srv/a.bin",
		Size:       1024,
		Bytes:      1024,
		State:      models.StateCompleted,
		EnqueuedAt: time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}

	query, args, err := buildInsertTransferQuery(task)
	require.NoError(t, err)

	require.Len(t, args, len(transferColumns))
	require.Equal(t, task.ID.String(), args[0])
	require.Equal(t, task.ProfileID.String(), args[1])

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into transfers")
	for _, c := range transferColumns {
		require.Contains(t, q, c)
	}
}

func Test_buildRecentTransfersQuery(t *testing.T) {
	query, args, err := buildRecentTransfersQuery(20)
	require.NoError(t, err)
	require.Empty(t, args)

	q := strings.ToLower(query)
	require.Contains(t, q, "select")
	require.Contains(t, q, "from transfers")
	require.Contains(t, q, "order by finished_at desc")
	require.Contains(t, q, "limit 20")
}

func Test_buildProfileTransfersQuery(t *testing.T) {
	profileID := models.NewID()

	query, args, err := buildProfileTransfersQuery(profileID, 5)
	require.NoError(t, err)

	require.Len(t, args, 1)
	require.Equal(t, profileID.String(), args[0])

	q := strings.ToLower(query)
	require.Contains(t, q, "from transfers")
	require.Contains(t, q, "where")
	require.Contains(t, q, "profile_id")
	require.Contains(t, query, "?")
	require.Contains(t, q, "limit 5")
}

func Test_buildPurgeTransfersQuery(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := buildPurgeTransfersQuery(cutoff)
	require.NoError(t, err)

	require.Len(t, args, 1)
	require.Equal(t, cutoff, args[0])

	q := strings.ToLower(query)
	require.Contains(t, q, "delete from transfers")
	require.Contains(t, q, "finished_at")
}
