// Package storage provides the per-client key-value store the login flow
// persists its state in. Every implementation is best-effort: failures are
// logged and swallowed, reads that fail report the key as absent.
package storage

// KeyValueStore is a synchronous, string-keyed, string-valued store.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// UnavailableStore behaves like a store that cannot be used at all
// (e.g. storage disabled by the browser). Reads are absent, writes dropped.
type UnavailableStore struct{}

func (UnavailableStore) Get(string) (string, bool) { return "", false }
func (UnavailableStore) Set(string, string)        {}
func (UnavailableStore) Remove(string)             {}
