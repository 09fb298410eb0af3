package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"fs":     fsStore,
		"s3":     newFakeS3Store(t),
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			opts := PutOptions{ContentType: "application/json", Metadata: map[string]string{"well": "a-1"}}
			info, err := store.Put(ctx, "reports/a.json", strings.NewReader(`{"a":1}`), opts)
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if info.Key != "reports/a.json" || info.Size != 7 || info.ContentType != "application/json" {
				t.Fatalf("unexpected info %+v", info)
			}
			opts.Metadata["well"] = "mutated"
			if _, err := store.Put(ctx, "reports/a.json", strings.NewReader("x"), PutOptions{}); !errors.Is(err, ErrExists) {
				t.Fatalf("expected ErrExists, got %v", err)
			}
			head, err := store.Head(ctx, "reports/a.json")
			if err != nil {
				t.Fatalf("head: %v", err)
			}
			if head.Metadata["well"] != "a-1" {
				t.Fatalf("expected stored metadata to be isolated from caller, got %+v", head.Metadata)
			}
			_, rc, err := store.Get(ctx, "reports/a.json")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			data, _ := io.ReadAll(rc)
			_ = rc.Close()
			if string(data) != `{"a":1}` {
				t.Fatalf("get mismatch: %q", data)
			}
			if _, err := store.Put(ctx, "reports/b.json", strings.NewReader("{}"), PutOptions{}); err != nil {
				t.Fatalf("put b: %v", err)
			}
			if _, err := store.Put(ctx, "other/c.json", strings.NewReader("{}"), PutOptions{}); err != nil {
				t.Fatalf("put c: %v", err)
			}
			list, err := store.List(ctx, "reports/")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 2 || list[0].Key != "reports/a.json" || list[1].Key != "reports/b.json" {
				t.Fatalf("unexpected listing %+v", list)
			}
			if ok, err := store.Delete(ctx, "reports/a.json"); err != nil || !ok {
				t.Fatalf("delete: ok=%v err=%v", ok, err)
			}
			if ok, err := store.Delete(ctx, "reports/a.json"); err != nil || ok {
				t.Fatalf("second delete: ok=%v err=%v", ok, err)
			}
			if _, err := store.Head(ctx, "reports/a.json"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound from head, got %v", err)
			}
			if _, _, err := store.Get(ctx, "reports/missing.json"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound from get, got %v", err)
			}
		})
	}
}

func TestStoreRejectsBadKeys(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		for _, key := range []string{"", "  ", "/abs.json", "../escape.json", "a/../../b", "dir/"} {
			_, err := store.Put(context.Background(), key, strings.NewReader("x"), PutOptions{})
			var invalid InvalidKeyError
			if !errors.As(err, &invalid) {
				t.Fatalf("%s: expected InvalidKeyError for %q, got %v", name, key, err)
			}
		}
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fsStore, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	for _, store := range []Store{NewMemoryStore(), fsStore} {
		if _, err := store.Put(ctx, "k", strings.NewReader("x"), PutOptions{}); !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: expected context.Canceled, got %v", store.Driver(), err)
		}
		if _, err := store.List(ctx, ""); !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: expected context.Canceled from list, got %v", store.Driver(), err)
		}
	}
}

func TestMemoryStoreConcurrentPutSingleWinner(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Put(context.Background(), "reports/race.json", bytes.NewReader([]byte("x")), PutOptions{}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one successful put, got %d", wins)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestStorePutReadError(t *testing.T) {
	fsStore, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	for _, store := range []Store{NewMemoryStore(), fsStore} {
		if _, err := store.Put(context.Background(), "k", failingReader{}, PutOptions{}); err == nil {
			t.Fatalf("%s: expected read error", store.Driver())
		}
		if _, err := store.Head(context.Background(), "k"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: failed put must not leave an object, got %v", store.Driver(), err)
		}
	}
}

func TestFSStoreLayoutAndReservedNames(t *testing.T) {
	root := t.TempDir()
	store, err := NewFSStore(root)
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	if store.Root() != root || store.Driver() != DriverFilesystem {
		t.Fatalf("unexpected store %+v", store)
	}
	if _, err := store.Put(context.Background(), "reports/x.json", strings.NewReader("{}"), PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	for _, p := range []string{"reports/x.json", "reports/x.json.meta"} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(p))); err != nil {
			t.Fatalf("expected %s on disk: %v", p, err)
		}
	}
	entries, _ := os.ReadDir(filepath.Join(root, "reports"))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), tempPrefix) {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
	for _, key := range []string{"reports/x.json.meta", "reports/.tmp-1"} {
		var invalid InvalidKeyError
		if _, err := store.Put(context.Background(), key, strings.NewReader("x"), PutOptions{}); !errors.As(err, &invalid) {
			t.Fatalf("expected reserved key %q to be rejected, got %v", key, err)
		}
	}
}

func TestFSStoreCorruptSidecar(t *testing.T) {
	root := t.TempDir()
	store, err := NewFSStore(root)
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	if _, err := store.Put(context.Background(), "bad.json", strings.NewReader("{}"), PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "bad.json.meta"), []byte("{"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if _, err := store.Head(context.Background(), "bad.json"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if _, err := store.List(context.Background(), ""); err == nil {
		t.Fatalf("expected list to surface corrupt sidecar")
	}
}

func TestNewFSStoreRejectsFileRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFSStore(file); err == nil {
		t.Fatalf("expected error for file root")
	}
}
