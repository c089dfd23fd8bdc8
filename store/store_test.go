package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "mina"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load missing: err = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, "mina", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "alex", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "mina", []byte(`{"v":3}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	doc, err := s.Load(ctx, "mina")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(doc) != `{"v":3}` {
		t.Fatalf("Load = %s, want overwritten doc", doc)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 || ids[0] != "alex" || ids[1] != "mina" {
		t.Fatalf("List = %v, want [alex mina]", ids)
	}

	if err := s.Delete(ctx, "mina"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "mina"); err != nil {
		t.Fatalf("second Delete should be a no-op: %v", err)
	}
	if _, err := s.Load(ctx, "mina"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after Delete: err = %v", err)
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// ══════════════════════════════════════════════
// Backends
// ══════════════════════════════════════════════

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	doc := []byte("abc")
	s.Save(ctx, "x", doc)
	doc[0] = 'z'
	got, _ := s.Load(ctx, "x")
	if string(got) != "abc" {
		t.Fatalf("stored doc aliased caller buffer: %s", got)
	}
}

func TestRedisStore(t *testing.T) {
	_, client := newRedis(t)
	exerciseStore(t, NewRedisStore(client))
}

func TestRedisStorePrefixAndTTL(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	s := NewRedisStore(client, RedisStoreConfig{Prefix: "test:", TTL: time.Hour})

	if err := s.Save(ctx, "mina", []byte("doc")); err != nil {
		t.Fatal(err)
	}
	mr.Set("other:key", "ignored")
	if !mr.Exists("test:mina") {
		t.Fatal("expected prefixed key")
	}
	ids, _ := s.List(ctx)
	if len(ids) != 1 || ids[0] != "mina" {
		t.Fatalf("List = %v, want only prefixed ids", ids)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := s.Load(ctx, "mina"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, err = %v", err)
	}
}

func TestSQLStore(t *testing.T) {
	s, err := NewSQLStore(context.Background(), newSQLite(t), SQLStoreConfig{
		Dialect:     DialectSQLite,
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	exerciseStore(t, s)
}

func TestSQLStoreRejectsUnknownDialect(t *testing.T) {
	_, err := NewSQLStore(context.Background(), newSQLite(t), SQLStoreConfig{
		Dialect:     "oracle",
		AutoMigrate: true,
	})
	if err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

// ══════════════════════════════════════════════
// Cache
// ══════════════════════════════════════════════

func TestCachedStore(t *testing.T) {
	exerciseStore(t, NewCachedStore(NewMemoryStore(), time.Minute))
}

func TestCachedStoreReadThrough(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	backend.Save(ctx, "mina", []byte("v1"))
	c := NewCachedStore(backend, 0)

	if doc, err := c.Load(ctx, "mina"); err != nil || string(doc) != "v1" {
		t.Fatalf("Load = %s, %v", doc, err)
	}
	if c.Cached() != 1 {
		t.Fatalf("Cached = %d, want 1", c.Cached())
	}

	// A write that bypasses the cache is not seen until the entry goes.
	backend.Save(ctx, "mina", []byte("v2"))
	if doc, _ := c.Load(ctx, "mina"); string(doc) != "v1" {
		t.Fatalf("expected cached v1, got %s", doc)
	}

	if err := c.Save(ctx, "mina", []byte("v3")); err != nil {
		t.Fatal(err)
	}
	if doc, _ := backend.Load(ctx, "mina"); string(doc) != "v3" {
		t.Fatalf("write-through failed, backend has %s", doc)
	}

	c.Delete(ctx, "mina")
	if c.Cached() != 0 {
		t.Fatal("Delete should evict")
	}
}
