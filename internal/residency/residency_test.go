package residency

import (
	"context"
	"testing"

	"github.com/discochess/linecache/internal/shard"
)

type staticLoader map[string][]byte

func (l staticLoader) ReadShard(ctx context.Context, name string) ([]byte, error) {
	return l[name], nil
}

func loadedShard(t *testing.T, loader staticLoader, name string) *shard.Shard {
	t.Helper()
	s, err := shard.New(name, loader)
	if err != nil {
		t.Fatalf("shard.New() error = %v", err)
	}
	if _, err := s.ReadLine(context.Background(), 0); err != nil {
		t.Fatalf("ReadLine() error = %v", err)
	}
	return s
}

func TestTracker_EvictsLeastRecentlyUsed(t *testing.T) {
	loader := staticLoader{
		"1_1.cache": []byte("a\n"),
		"2_2.cache": []byte("b\n"),
		"3_3.cache": []byte("c\n"),
	}
	tr, err := New(2, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s1 := loadedShard(t, loader, "1_1.cache")
	s2 := loadedShard(t, loader, "2_2.cache")
	tr.Touch(s1)
	tr.Touch(s2)
	tr.Touch(s1) // s2 is now least recently used.

	s3 := loadedShard(t, loader, "3_3.cache")
	tr.Touch(s3)

	if tr.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tr.Len())
	}
	if s2.Loaded() {
		t.Error("s2 should have been released")
	}
	if !s1.Loaded() || !s3.Loaded() {
		t.Error("s1 and s3 should stay loaded")
	}

	tr.Purge()
	if s1.Loaded() || s3.Loaded() {
		t.Error("Purge() should release every shard")
	}
}

func TestTracker_Unbounded(t *testing.T) {
	tr, err := New(0, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s := loadedShard(t, staticLoader{"1_1.cache": []byte("a\n")}, "1_1.cache")

	tr.Touch(s)
	tr.Purge()

	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tr.Len())
	}
	if !s.Loaded() {
		t.Error("unbounded tracker must never release shards")
	}
}
