package store

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
)

const cellPrefix = "cell|"

var (
	cellLower = []byte(cellPrefix)
	cellUpper = []byte("cell}")
)

// Pebble stores cells in a Pebble database directory
type Pebble struct {
	path string

	mu sync.Mutex
	db *pebble.DB
}

// OpenPebble opens or creates the database at path
func OpenPebble(path string) (*Pebble, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: pebble path is empty")
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("store: pebble open %s: %w", path, err)
	}
	return &Pebble{path: path, db: db}, nil
}

func cellKey(key string) []byte {
	return []byte(cellPrefix + key)
}

func (p *Pebble) handle() (*pebble.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil, ErrClosed
	}
	return p.db, nil
}

func (p *Pebble) LoadCell(key string) (string, bool, error) {
	db, err := p.handle()
	if err != nil {
		return "", false, err
	}
	value, closer, err := db.Get(cellKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("store: get %s: %w", key, err)
	}
	defer closer.Close()
	return string(value), true, nil
}

func (p *Pebble) SaveCell(key, value string) error {
	db, err := p.handle()
	if err != nil {
		return err
	}
	if err := db.Set(cellKey(key), []byte(value), pebble.Sync); err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

func (p *Pebble) DeleteCell(key string) error {
	db, err := p.handle()
	if err != nil {
		return err
	}
	if err := db.Delete(cellKey(key), pebble.Sync); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

func (p *Pebble) Keys() ([]string, error) {
	db, err := p.handle()
	if err != nil {
		return nil, err
	}
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: cellLower,
		UpperBound: cellUpper,
	})
	if err != nil {
		return nil, fmt.Errorf("store: keys iterator: %w", err)
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, strings.TrimPrefix(string(iter.Key()), cellPrefix))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("store: iterate keys: %w", err)
	}
	return keys, nil
}

// SizeOnDisk sums the size of the database files
func (p *Pebble) SizeOnDisk() (uint64, error) {
	var total uint64
	err := filepath.WalkDir(p.path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += uint64(info.Size())
		return nil
	})
	return total, err
}

func (p *Pebble) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
