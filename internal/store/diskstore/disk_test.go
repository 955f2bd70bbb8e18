package diskstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/discochess/linecache/internal/store"
)

func TestStore_ReadShard(t *testing.T) {
	dir := t.TempDir()

	data := []byte("line one\nline two\n")
	if err := os.WriteFile(filepath.Join(dir, "1_2.cache"), data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	got, err := s.ReadShard(context.Background(), "1_2.cache")
	if err != nil {
		t.Fatalf("ReadShard() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("ReadShard() = %q, want %q", got, data)
	}
}

func TestStore_ReadShardNotFound(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	_, err = s.ReadShard(context.Background(), "1_1.cache")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadShard() error = %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"1_2.cache":        "a\nb\n",
		"3_3.cache":        "c\n",
		"notes.txt":        "ignored",
		"source.cache.txt": "excluded source",
		"odd.cache.bak":    "candidate with bad name",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "dir.cache"), 0755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	s, err := New(dir, WithExclude("source.cache.txt"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	entries, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	want := []store.Entry{
		{Name: "1_2.cache", Size: 4},
		{Name: "3_3.cache", Size: 2},
		{Name: "odd.cache.bak", Size: int64(len("candidate with bad name"))},
	}
	if len(entries) != len(want) {
		t.Fatalf("List() = %v, want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("List()[%d] = %v, want %v", i, entries[i], want[i])
		}
	}
	if got := store.TotalSize(entries); got != 4+2+int64(len("candidate with bad name")) {
		t.Errorf("TotalSize() = %d", got)
	}
}

func TestStore_WriteAndRemoveShard(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := s.WriteShard(ctx, "1_1.cache", []byte("x\n")); err != nil {
		t.Fatalf("WriteShard() error = %v", err)
	}

	// No temp files may survive a successful write.
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, de := range dirEntries {
		if strings.HasPrefix(de.Name(), tempPrefix) {
			t.Errorf("leftover temp file %s", de.Name())
		}
	}

	got, err := s.ReadShard(ctx, "1_1.cache")
	if err != nil || string(got) != "x\n" {
		t.Fatalf("ReadShard() = %q, %v", got, err)
	}

	if err := s.RemoveShard(ctx, "1_1.cache"); err != nil {
		t.Fatalf("RemoveShard() error = %v", err)
	}
	if err := s.RemoveShard(ctx, "1_1.cache"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second RemoveShard() error = %v, want ErrNotFound", err)
	}
}

func TestStore_SweepTemp(t *testing.T) {
	dir := t.TempDir()
	files := map[string]bool{
		// name: should survive the sweep
		tempPrefix + "0b1e.tmp":  false,
		tempPrefix + "77aa.tmp":  false,
		tempPrefix + "notes.txt": true,
		"data.tmp":               true,
		"1_2.cache":              true,
	}
	for name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, tempPrefix+"dir.tmp"), 0755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	files[tempPrefix+"dir.tmp"] = true

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	n, err := s.SweepTemp(context.Background())
	if err != nil {
		t.Fatalf("SweepTemp() error = %v", err)
	}
	if n != 2 {
		t.Errorf("SweepTemp() removed %d files, want 2", n)
	}
	for name, keep := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists := err == nil; exists != keep {
			t.Errorf("%s exists = %v, want %v", name, exists, keep)
		}
	}

	if n, err := s.SweepTemp(context.Background()); err != nil || n != 0 {
		t.Errorf("second SweepTemp() = %d, %v, want 0, nil", n, err)
	}
}

func TestStore_ContextCanceled(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("List() error = %v, want context.Canceled", err)
	}
	if err := s.WriteShard(ctx, "1_1.cache", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteShard() error = %v, want context.Canceled", err)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path")
	if err == nil {
		t.Error("New() with invalid path should return error")
	}
}

func TestNew_NotDirectory(t *testing.T) {
	// Create a file, not a directory.
	f, err := os.CreateTemp("", "test")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	defer os.Remove(f.Name())

	_, err = New(f.Name())
	if err == nil {
		t.Error("New() with file (not directory) should return error")
	}
}
