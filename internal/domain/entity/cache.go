package entity

import "time"

// CachedResult is a finished pipeline output stored for reuse.
// Only StatusOK results are ever cached.
type CachedResult struct {
	Key       string
	Mode      string
	Output    string
	Levels    int
	Calls     int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is no longer valid at now.
func (c *CachedResult) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Result converts the entry back into a pipeline result.
func (c *CachedResult) Result() Result {
	return Result{Output: c.Output, Status: StatusOK, Levels: c.Levels, Calls: c.Calls}
}
