package lockstore

import (
	"sync"

	"github.com/SherlockGy/linekv/lib/store"
)

// entryKind discriminates the two value types a key can hold.
type entryKind uint8

const (
	kindString entryKind = iota
	kindList
)

// entry is one stored value. Exactly one of str or list is meaningful,
// selected by kind.
type entry struct {
	kind entryKind
	str  string
	list []string
}

// storeImpl guards a plain map with a single RWMutex. Readers share the
// lock, writers hold it exclusively, so a mutation is never observed
// half-applied.
type storeImpl struct {
	mu   sync.RWMutex
	data map[string]entry
}

// New creates a new lock-based store instance. The store starts empty and
// lives entirely in memory.
func New() store.IStore {
	return &storeImpl{
		data: make(map[string]entry),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{kind: kindString, str: value}
	return nil
}

func (s *storeImpl) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return "", false, nil
	}
	if e.kind != kindString {
		return "", false, store.NewError(store.RetCWrongType, "key holds a list, not a string")
	}
	return e.str, true, nil
}

func (s *storeImpl) Delete(keys ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keys are removed one by one under the same exclusive lock. There is
	// no rollback if the caller passed duplicates or absent keys; each key
	// counts at most once.
	removed := 0
	for _, key := range keys {
		if _, ok := s.data[key]; ok {
			delete(s.data, key)
			removed++
		}
	}
	return removed, nil
}

func (s *storeImpl) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *storeImpl) LPush(key string, values ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if ok && e.kind != kindList {
		return 0, store.NewError(store.RetCWrongType, "key holds a string, not a list")
	}

	// Prepend the values as a block so they keep their left-to-right order.
	list := make([]string, 0, len(values)+len(e.list))
	list = append(list, values...)
	list = append(list, e.list...)
	s.data[key] = entry{kind: kindList, list: list}

	return len(list), nil
}

func (s *storeImpl) LRange(key string, start, stop int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return []string{}, nil
	}
	if e.kind != kindList {
		return nil, store.NewError(store.RetCWrongType, "key holds a string, not a list")
	}

	return store.RangeSlice(e.list, start, stop), nil
}
