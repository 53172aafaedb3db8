// Package store persists grid cells in a flat key space, one entry per cell,
// keyed "{row}_{col}" with 1-based columns.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tosih/edc15p-tool/pkg/models"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
	BackendSQLite = "sqlite"
)

var (
	// ErrClosed is returned by operations on a closed store
	ErrClosed = errors.New("store: closed")
	errBadKey = errors.New("store: malformed key")
)

// Store is the persistence capability the grid is built on
type Store interface {
	// LoadCell returns the stored text for key; ok is false when absent.
	LoadCell(key string) (value string, ok bool, err error)
	SaveCell(key, value string) error
	DeleteCell(key string) error
	// Keys lists every stored key in lexical order.
	Keys() ([]string, error)
	Close() error
}

// Sizer is implemented by stores backed by files
type Sizer interface {
	SizeOnDisk() (uint64, error)
}

// Key builds the persisted key of a cell; col is 0-based.
func Key(row models.Row, col int) string {
	return row.String() + "_" + strconv.Itoa(col+1)
}

// ParseKey splits a persisted key into its row and 0-based column
func ParseKey(key string) (models.Row, int, error) {
	idx := strings.LastIndexByte(key, '_')
	if idx <= 0 || idx == len(key)-1 {
		return 0, 0, fmt.Errorf("%w: %q", errBadKey, key)
	}
	row, err := models.ParseRow(key[:idx])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", errBadKey, key, err)
	}
	n, err := strconv.Atoi(key[idx+1:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("%w: %q", errBadKey, key)
	}
	return row, n - 1, nil
}

// Open opens the store for the configured backend
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendPebble:
		return OpenPebble(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
}

// Clear deletes every stored key
func Clear(s Store) error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.DeleteCell(k); err != nil {
			return err
		}
	}
	return nil
}

// Describe returns a one-line summary of a store's contents
func Describe(name string, s Store) string {
	keys, err := s.Keys()
	if err != nil {
		return fmt.Sprintf("%s store: %v", name, err)
	}
	line := fmt.Sprintf("%s store: %s cells", name, humanize.Comma(int64(len(keys))))
	if sz, ok := s.(Sizer); ok {
		if n, err := sz.SizeOnDisk(); err == nil {
			line += fmt.Sprintf(", %s on disk", humanize.Bytes(n))
		}
	}
	return line
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
