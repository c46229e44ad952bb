package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/internal/mock"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

func TestEngine_ProfileResolutionFailureIsTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)

	profiles := mock.NewMockProfileSource(ctrl)
	profiles.EXPECT().
		Profile(gomock.Any()).
		Return(models.ConnectionProfile{}, errors.New("profile was removed from the vault"))

	// No Acquire expectation: a task without a profile must never reach
	// the pool.
	pool := mock.NewMockSessionPool(ctrl)

	e := NewEngine(testTransfersConfig(), profiles, pool, nil, logger.Nop())
	e.Start()
	t.Cleanup(e.Stop)

	task, err := e.Enqueue(downloadRequest())
	require.NoError(t, err)

	final := waitTerminal(t, e, task.ID)
	assert.Equal(t, models.StateFailed, final.State)
	assert.Equal(t, 0, final.Retries, "a missing profile is not transient")
	assert.Contains(t, final.Error, "resolve profile")
}

func TestEngine_RecorderFailureDoesNotAffectTaskState(t *testing.T) {
	ctrl := gomock.NewController(t)

	recorder := mock.NewMockRecorder(ctrl)
	recorder.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, task models.TransferTask) error {
			assert.Equal(t, models.StateCompleted, task.State)
			return errors.New("history database is locked")
		})

	sess := &fakeSession{chunks: 1, chunkSize: 64}
	e, _ := newTestEngine(t, testTransfersConfig(), sess, recorder)

	task, err := e.Enqueue(downloadRequest())
	require.NoError(t, err)

	final := waitTerminal(t, e, task.ID)
	assert.Equal(t, models.StateCompleted, final.State)
}
