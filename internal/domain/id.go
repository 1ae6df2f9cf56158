package domain

import (
	"sync/atomic"
	"time"
)

// idCounter is seeded from the wall clock at process start so that ids keep
// increasing across restarts in the common case. Uniqueness is per process;
// deployments with multiple writers need an external allocator.
var idCounter atomic.Int64

func init() {
	idCounter.Store(time.Now().UnixMilli())
}

// NextMemberID issues a fresh member id. Ids are positive, strictly
// increasing within the process, and safe to request concurrently.
func NextMemberID() int64 {
	return idCounter.Add(1)
}
