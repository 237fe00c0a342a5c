package lockstore

import (
	"testing"

	storetesting "github.com/SherlockGy/linekv/lib/store/testing"
)

func TestLockStore(t *testing.T) {
	storetesting.RunStoreTests(t, "lockstore", New)
}
