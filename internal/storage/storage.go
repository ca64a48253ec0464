// Package storage defines the key-value contract the item store persists
// through, and opens one of the concrete backends by name.
package storage

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/tada/internal/storage/jsonstore"
	"github.com/Makepad-fr/tada/internal/storage/memstore"
	"github.com/Makepad-fr/tada/internal/storage/sqlitestore"
)

// Storage is a string-to-string store, written wholesale per key.
type Storage interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	Close() error
}

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists the names Open accepts.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open returns the backend named by backend rooted at dataDir.
func Open(backend, dataDir string) (Storage, error) {
	switch strings.ToLower(backend) {
	case "", BackendFile:
		return jsonstore.New(dataDir), nil
	case BackendSQLite:
		return sqlitestore.Open(dataDir)
	case BackendMemory:
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
