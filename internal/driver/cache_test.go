package driver_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"kdart/internal/driver"
	"kdart/internal/project"
)

func TestCacheHitMiss(t *testing.T) {
	c, err := driver.OpenCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	unit := project.HashBytes([]byte("unit"))
	program := project.HashBytes([]byte("program"))
	key := driver.CacheKey(unit, program, "0.1.0")

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := c.Put(key, &driver.CacheEntry{Unit: "a.kt", Text: []byte("void main() {}\n"), Imports: map[string][]string{"package:app/b.dt.g.dart": {"twice"}}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	entry, ok, err := c.Get(key)
	if !ok || err != nil {
		t.Fatalf("expected hit: ok=%v err=%v", ok, err)
	}
	if string(entry.Text) != "void main() {}\n" || !reflect.DeepEqual(entry.Imports["package:app/b.dt.g.dart"], []string{"twice"}) {
		t.Fatalf("entry = %+v", entry)
	}
	if _, ok, _ := c.Get(driver.CacheKey(unit, program, "0.2.0")); ok {
		t.Fatal("a new tool version must miss")
	}
}

func TestCacheCorruptEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := driver.OpenCache(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := project.HashBytes([]byte("k"))
	if err := c.Put(key, &driver.CacheEntry{Text: []byte("x")}); err != nil {
		t.Fatalf("put: %v", err)
	}
	hex := key.Hex()
	if err := os.WriteFile(filepath.Join(dir, hex[:2], hex+".mp"), []byte{0xc1}, 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	_, ok, err := c.Get(key)
	if ok || !errors.Is(err, driver.ErrCacheCorrupt) {
		t.Fatalf("ok=%v err=%v, want ErrCacheCorrupt", ok, err)
	}
}

func TestCacheDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := driver.OpenCache(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := project.HashBytes([]byte("k"))
	if err := c.Put(key, &driver.CacheEntry{Text: []byte("x")}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("cache dir should exist after DropAll: %v", err)
	}
}
