package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/discochess/linecache/internal/store"
)

func TestStore_Counters(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.SetShard("1_1.cache", []byte("seed\n"))
	if s.Writes() != 0 {
		t.Errorf("Writes() = %d after SetShard, want 0", s.Writes())
	}

	if err := s.WriteShard(ctx, "2_2.cache", []byte("x\n")); err != nil {
		t.Fatalf("WriteShard() error = %v", err)
	}
	if _, err := s.ReadShard(ctx, "2_2.cache"); err != nil {
		t.Fatalf("ReadShard() error = %v", err)
	}
	if err := s.RemoveShard(ctx, "1_1.cache"); err != nil {
		t.Fatalf("RemoveShard() error = %v", err)
	}

	if s.Writes() != 1 || s.Reads() != 1 || s.Removes() != 1 {
		t.Errorf("counters = (writes %d, reads %d, removes %d), want (1, 1, 1)",
			s.Writes(), s.Reads(), s.Removes())
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0] != (store.Entry{Name: "2_2.cache", Size: 2}) {
		t.Errorf("List() = %v", entries)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.ReadShard(ctx, "1_1.cache"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadShard() error = %v, want ErrNotFound", err)
	}
	if err := s.RemoveShard(ctx, "1_1.cache"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("RemoveShard() error = %v, want ErrNotFound", err)
	}
}

func TestStore_SetShardCopies(t *testing.T) {
	s := New()
	data := []byte("abc\n")
	s.SetShard("1_1.cache", data)
	data[0] = 'z'

	got, err := s.ReadShard(context.Background(), "1_1.cache")
	if err != nil {
		t.Fatalf("ReadShard() error = %v", err)
	}
	if string(got) != "abc\n" {
		t.Errorf("ReadShard() = %q, want %q", got, "abc\n")
	}
}
