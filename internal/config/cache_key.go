package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionEventsChannel returns the Redis PubSub channel carrying an editing session's events
func (r *CacheKeyStruct) SessionEventsChannel(sessionID string) string {
	return fmt.Sprintf("editor:session:%s:events", sessionID)
}

// SessionSnapshotKey returns the cache key for the latest snapshot of an editing session
func (r *CacheKeyStruct) SessionSnapshotKey(sessionID string) string {
	return fmt.Sprintf("editor:session:%s:snapshot", sessionID)
}

var CacheKey = NewCacheKeyStruct()
