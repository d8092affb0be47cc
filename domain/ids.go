package domain

import (
	"strconv"
	"sync/atomic"
	"time"
)

var lastTaskID int64

// NewTaskID returns a task id derived from the current Unix time in
// milliseconds. Ids are strictly increasing within the process.
func NewTaskID() string {
	for {
		now := time.Now().UnixMilli()
		last := atomic.LoadInt64(&lastTaskID)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastTaskID, last, now) {
			return strconv.FormatInt(now, 10)
		}
	}
}
