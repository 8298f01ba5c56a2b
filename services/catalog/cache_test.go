package catalog

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c := newFileCache(afero.NewMemMapFs(), "cache", time.Hour)

	type payload struct {
		Name string `json:"name"`
	}
	if err := c.set("k1", payload{Name: "x"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	ok, err := c.get("k1", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Name != "x" {
		t.Fatalf("got %q", got.Name)
	}
}

func TestFileCacheMissAndEmptyKey(t *testing.T) {
	c := newFileCache(afero.NewMemMapFs(), "cache", time.Hour)

	var got string
	if ok, _ := c.get("absent", &got); ok {
		t.Fatal("expected miss for absent key")
	}
	if _, err := c.get("", &got); err == nil {
		t.Fatal("expected error for empty key")
	}
	if err := c.set("", "v"); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestFileCacheCorruptEntryIsAMiss(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := newFileCache(fs, "cache", time.Hour)
	if err := fs.MkdirAll("cache", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "cache/bad.json", []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var got map[string]string
	if ok, _ := c.get("bad", &got); ok {
		t.Fatal("corrupt entry must read as a miss")
	}
	if exists, _ := afero.Exists(fs, "cache/bad.json"); exists {
		t.Fatal("corrupt entry must be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := newFileCache(fs, "cache", time.Hour)
	_ = c.set("a", 1)
	_ = c.set("b", 2)

	if err := c.clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	var got int
	if ok, _ := c.get("a", &got); ok {
		t.Fatal("expected miss after clear")
	}
}

func TestFileCacheJitteredTTLDeterministic(t *testing.T) {
	c := newFileCache(afero.NewMemMapFs(), "cache", time.Hour)
	a := c.jitteredTTL("key")
	b := c.jitteredTTL("key")
	if a != b {
		t.Fatalf("jittered TTL must be stable per key: %v vs %v", a, b)
	}
	if a < time.Hour {
		t.Fatalf("jittered TTL below base: %v", a)
	}
}
