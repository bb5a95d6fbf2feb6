package cache

import "time"

// BytesCache stores serialized API responses keyed by request shape. Byte
// payloads keep the contract identical across the in-process and Redis
// backends.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
