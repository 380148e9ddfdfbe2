package storage

// Type selects the storage backend for the cache and config stores.
type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StoreError string

const (
	ErrUnsupportedStore StoreError = "unsupported storage type: %s"
)

func (e StoreError) Error() string {
	return string(e)
}
