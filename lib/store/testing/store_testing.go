package testing

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/SherlockGy/linekv/lib/store"
)

// RunStoreTests runs a conformance test suite for an IStore implementation.
// Every implementation must pass the full suite; implementation packages
// call this from their own _test.go file with their factory.
func RunStoreTests(t *testing.T, name string, factory store.Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("GetMissing", func(t *testing.T) {
			testGetMissing(t, factory())
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("LPush&LRange", func(t *testing.T) {
			testLPushLRange(t, factory())
		})

		t.Run("LRangeIndices", func(t *testing.T) {
			testLRangeIndices(t, factory())
		})

		t.Run("WrongType", func(t *testing.T) {
			testWrongType(t, factory())
		})

		t.Run("ConcurrentDistinctKeys", func(t *testing.T) {
			testConcurrentDistinctKeys(t, factory())
		})

		t.Run("ConcurrentSameKey", func(t *testing.T) {
			testConcurrentSameKey(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.IStore) {
	if err := s.Set("name", "Alice"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, loaded, err := s.Get("name")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !loaded {
		t.Error("expected key to be found")
	}
	if value != "Alice" {
		t.Errorf("expected value %q, got %q", "Alice", value)
	}

	// values may contain spaces
	if err := s.Set("msg", "Hello World"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, _, _ = s.Get("msg")
	if value != "Hello World" {
		t.Errorf("expected value %q, got %q", "Hello World", value)
	}
}

func testGetMissing(t *testing.T, s store.IStore) {
	value, loaded, err := s.Get("unknown")
	if err != nil {
		t.Fatalf("Get on missing key must not error, got: %v", err)
	}
	if loaded {
		t.Error("expected key to be absent")
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
}

func testOverwrite(t *testing.T, s store.IStore) {
	_ = s.Set("key", "first")
	_ = s.Set("key", "second")

	value, loaded, err := s.Get("key")
	if err != nil || !loaded {
		t.Fatalf("Get failed: loaded=%v err=%v", loaded, err)
	}
	if value != "second" {
		t.Errorf("expected overwritten value %q, got %q", "second", value)
	}
}

func testDelete(t *testing.T, s store.IStore) {
	_ = s.Set("a", "1")
	_ = s.Set("b", "2")

	removed, err := s.Delete("a", "b", "missing")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	// idempotent: a second identical delete removes nothing
	removed, err = s.Delete("a", "b", "missing")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 removed on repeat, got %d", removed)
	}

	if _, loaded, _ := s.Get("a"); loaded {
		t.Error("deleted key still present")
	}
}

func testKeys(t *testing.T, s store.IStore) {
	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected empty store, got keys %v", keys)
	}

	const n = 10
	want := make([]string, 0, n)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		want = append(want, key)
		_ = s.Set(key, "v")
	}

	keys, err = s.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}

	// order is unspecified, compare sorted
	sort.Strings(keys)
	sort.Strings(want)
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d (%v)", len(want), len(keys), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key mismatch at %d: expected %q, got %q", i, want[i], keys[i])
		}
	}
}

func testLPushLRange(t *testing.T, s store.IStore) {
	length, err := s.LPush("mylist", "a", "b", "c")
	if err != nil {
		t.Fatalf("LPush failed: %v", err)
	}
	if length != 3 {
		t.Errorf("expected length 3, got %d", length)
	}

	// pushed values keep their left-to-right order
	values, err := s.LRange("mylist", 0, -1)
	if err != nil {
		t.Fatalf("LRange failed: %v", err)
	}
	assertList(t, values, "a", "b", "c")

	// a second push lands as a block in front of the first
	if _, err := s.LPush("mylist", "x", "y"); err != nil {
		t.Fatalf("LPush failed: %v", err)
	}
	values, _ = s.LRange("mylist", 0, -1)
	assertList(t, values, "x", "y", "a", "b", "c")

	// absent key yields an empty range, not an error
	values, err = s.LRange("nope", 0, -1)
	if err != nil {
		t.Fatalf("LRange on missing key must not error, got: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty range, got %v", values)
	}
}

func testLRangeIndices(t *testing.T, s store.IStore) {
	_, _ = s.LPush("l", "a", "b", "c", "d", "e")

	cases := []struct {
		start, stop int
		want        []string
	}{
		{0, -1, []string{"a", "b", "c", "d", "e"}},
		{1, 3, []string{"b", "c", "d"}},
		{-2, -1, []string{"d", "e"}},
		{0, 100, []string{"a", "b", "c", "d", "e"}},
		{-100, 0, []string{"a"}},
		{3, 1, []string{}},
		{100, 200, []string{}},
	}

	for _, c := range cases {
		values, err := s.LRange("l", c.start, c.stop)
		if err != nil {
			t.Fatalf("LRange(%d, %d) failed: %v", c.start, c.stop, err)
		}
		assertList(t, values, c.want...)
	}
}

func testWrongType(t *testing.T, s store.IStore) {
	_ = s.Set("str", "value")
	_, _ = s.LPush("list", "a")

	if _, err := s.LPush("str", "x"); !store.IsWrongType(err) {
		t.Errorf("LPush on string key: expected WRONGTYPE, got %v", err)
	}
	if _, err := s.LRange("str", 0, -1); !store.IsWrongType(err) {
		t.Errorf("LRange on string key: expected WRONGTYPE, got %v", err)
	}
	if _, _, err := s.Get("list"); !store.IsWrongType(err) {
		t.Errorf("Get on list key: expected WRONGTYPE, got %v", err)
	}

	// a rejected mutation must not have modified anything
	if value, _, _ := s.Get("str"); value != "value" {
		t.Errorf("string value changed after rejected LPush: %q", value)
	}
}

func testConcurrentDistinctKeys(t *testing.T, s store.IStore) {
	const writers = 32

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers; i++ {
		value, loaded, err := s.Get(fmt.Sprintf("key-%d", i))
		if err != nil || !loaded {
			t.Fatalf("key-%d missing after concurrent set: loaded=%v err=%v", i, loaded, err)
		}
		if value != fmt.Sprintf("value-%d", i) {
			t.Errorf("key-%d: expected value-%d, got %q", i, i, value)
		}
	}
}

func testConcurrentSameKey(t *testing.T, s store.IStore) {
	const (
		writers    = 8
		iterations = 200
	)

	// every writer repeatedly stores a self-describing value; readers must
	// only ever observe one of those values in full
	valid := make(map[string]bool, writers)
	for i := 0; i < writers; i++ {
		valid[fmt.Sprintf("writer-%d-payload", i)] = true
	}

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value := fmt.Sprintf("writer-%d-payload", i)
			for j := 0; j < iterations; j++ {
				_ = s.Set("shared", value)
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < iterations*writers; j++ {
			value, loaded, err := s.Get("shared")
			if err != nil {
				t.Errorf("Get failed: %v", err)
				return
			}
			if loaded && !valid[value] {
				t.Errorf("observed torn value %q", value)
				return
			}
		}
	}()

	wg.Wait()
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func assertList(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("expected list %v, got %v", want, got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("list mismatch at %d: expected %q, got %q (full: %v)", i, want[i], got[i], got)
			return
		}
	}
}
