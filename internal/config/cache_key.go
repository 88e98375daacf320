package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LoginAttemptKey returns the Redis key holding failed admin login attempts
// for one client address and submitted identifier.
func (r *CacheKeyStruct) LoginAttemptKey(key string) string {
	return fmt.Sprintf("ratelimit:admin_login:%s", key)
}

var CacheKey = NewCacheKeyStruct()
