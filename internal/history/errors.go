package history

import "errors"

var (
	ErrExecutingQuery = errors.New("error executing query")
	ErrScanningRow    = errors.New("error scanning row")
	ErrRowsIteration  = errors.New("error iterating rows")
)
