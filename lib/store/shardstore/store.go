package shardstore

import (
	"github.com/SherlockGy/linekv/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

// entryKind discriminates the two value types a key can hold.
type entryKind uint8

const (
	kindString entryKind = iota
	kindList
)

// entry is one stored value. Exactly one of str or list is meaningful,
// selected by kind. Entries are treated as immutable once stored: a
// mutation always swaps in a fresh entry via Compute, never edits a list
// in place. This keeps snapshots handed out by LRange stable.
type entry struct {
	kind entryKind
	str  string
	list []string
}

// storeImpl implements store.IStore on top of xsync.MapOf. The map shards
// keys internally, so there is no global lock; per-key mutations go through
// Compute and are atomic from the point of view of concurrent readers.
type storeImpl struct {
	data *xsync.MapOf[string, entry]
}

// New creates a new shard-based store instance.
func New() store.IStore {
	return &storeImpl{
		data: xsync.NewMapOf[string, entry](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key, value string) error {
	s.data.Store(key, entry{kind: kindString, str: value})
	return nil
}

func (s *storeImpl) Get(key string) (string, bool, error) {
	e, ok := s.data.Load(key)
	if !ok {
		return "", false, nil
	}
	if e.kind != kindString {
		return "", false, store.NewError(store.RetCWrongType, "key holds a list, not a string")
	}
	return e.str, true, nil
}

func (s *storeImpl) Delete(keys ...string) (int, error) {
	// Each key is removed atomically on its own; there is no cross-key
	// atomicity, matching the interface contract.
	removed := 0
	for _, key := range keys {
		if _, loaded := s.data.LoadAndDelete(key); loaded {
			removed++
		}
	}
	return removed, nil
}

func (s *storeImpl) Keys() ([]string, error) {
	keys := make([]string, 0, s.data.Size())
	s.data.Range(func(key string, _ entry) bool {
		keys = append(keys, key)
		return true
	})
	return keys, nil
}

func (s *storeImpl) LPush(key string, values ...string) (int, error) {
	var (
		length  int
		typeErr error
	)

	s.data.Compute(key, func(old entry, loaded bool) (entry, bool) {
		if loaded && old.kind != kindList {
			typeErr = store.NewError(store.RetCWrongType, "key holds a string, not a list")
			return old, false
		}

		// Prepend the values as a block so they keep their left-to-right
		// order. The old slice is never mutated, see entry docs.
		list := make([]string, 0, len(values)+len(old.list))
		list = append(list, values...)
		list = append(list, old.list...)
		length = len(list)

		return entry{kind: kindList, list: list}, false
	})

	if typeErr != nil {
		return 0, typeErr
	}
	return length, nil
}

func (s *storeImpl) LRange(key string, start, stop int) ([]string, error) {
	e, ok := s.data.Load(key)
	if !ok {
		return []string{}, nil
	}
	if e.kind != kindList {
		return nil, store.NewError(store.RetCWrongType, "key holds a string, not a list")
	}
	return store.RangeSlice(e.list, start, stop), nil
}
