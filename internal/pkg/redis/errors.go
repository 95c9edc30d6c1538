package redis

import "errors"

var ErrNotInitialized = errors.New("redis: client not initialized")
