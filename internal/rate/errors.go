package rate

import "errors"

var (
	// ErrRateLimited indicates the attempt budget is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable indicates the backing store could not be reached.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
