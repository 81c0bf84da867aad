package config

import (
	"fmt"
	"strings"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ChatThreadChannel returns the Redis PubSub channel name for one conversation thread.
// Thread names are matched case-sensitively, the same way the store matches them.
func (r *CacheKeyStruct) ChatThreadChannel(thread string) string {
	return fmt.Sprintf("chat:thread:%s", strings.TrimSpace(thread))
}

var CacheKey = NewCacheKeyStruct()
