package queue

import "errors"

var (
	// ErrUnknownTask means no task with that ID was ever enqueued.
	ErrUnknownTask = errors.New("unknown task")

	// ErrTaskFinished means the task already reached a terminal state and
	// cannot be cancelled.
	ErrTaskFinished = errors.New("task already finished")

	// ErrEngineStopped is returned by Enqueue after Stop.
	ErrEngineStopped = errors.New("transfer engine stopped")
)
