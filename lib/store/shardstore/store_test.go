package shardstore

import (
	"testing"

	storetesting "github.com/SherlockGy/linekv/lib/store/testing"
)

func TestShardStore(t *testing.T) {
	storetesting.RunStoreTests(t, "shardstore", New)
}
