package store

import "context"

/**
 * Store keeps execution history as opaque blobs addressed by prefix + key.
 * The engine writes one summary per execution and one record per node.
 */
type Store interface {
	/**
	 * Get returns nil without error when prefix + key does not exist
	 */
	Get(ctx context.Context, prefix, key string) ([]byte, error)
	Set(ctx context.Context, prefix, key string, value []byte) error
	/**
	 * Remove a prefix and key
	 * remove an unexists prefix + key would NOT return error
	 */
	Remove(ctx context.Context, prefix, key string) error

	List(ctx context.Context, prefix string, iterator func(key string) bool) error
}

// Closer is implemented by stores holding external resources.
type Closer interface {
	Close() error
}
