package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	// Test enabled cache
	c, err := New(filepath.Join(tmpDir, "cache"), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !c.Enabled() {
		t.Error("cache should be enabled")
	}

	// Test disabled cache
	c, err = New("", 0, false)
	if err != nil {
		t.Fatalf("New() error for disabled cache: %v", err)
	}
	if c.Enabled() {
		t.Error("cache should be disabled")
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "nested", "cache", "dir")

	if _, err := New(cacheDir, 24, true); err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("New() should create cache directory")
	}
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("classes: []"))
	b := HashBytes([]byte("classes: []"))
	c := HashBytes([]byte("classes: [x]"))

	if a != b {
		t.Error("same input should hash the same")
	}
	if a == c {
		t.Error("different input should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestHashFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "model.yaml")
	content := []byte("classes:\n  - name: A\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error: %v", err)
	}
	if got != HashBytes(content) {
		t.Error("HashFile() should match HashBytes() of the contents")
	}

	if _, err := HashFile(filepath.Join(tmpDir, "missing")); err == nil {
		t.Error("HashFile() should fail for a missing file")
	}
}

func TestGetSetWithHash(t *testing.T) {
	c, err := New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatal(err)
	}

	key := Key("analyze", "model.yaml", "5", "6")
	if err := c.SetWithHash(key, "h1", []byte(`{"total":5}`)); err != nil {
		t.Fatalf("SetWithHash() error: %v", err)
	}

	data, ok := c.GetWithHash(key, "h1")
	if !ok {
		t.Fatal("GetWithHash() should hit with matching hash")
	}
	if string(data) != `{"total":5}` {
		t.Errorf("GetWithHash() = %s", data)
	}

	if _, ok := c.GetWithHash(key, "h2"); ok {
		t.Error("GetWithHash() should miss when the hash changed")
	}
	if _, ok := c.GetWithHash(Key("analyze", "other.yaml"), "h1"); ok {
		t.Error("GetWithHash() should miss for an unknown key")
	}
}

func TestLoadStore(t *testing.T) {
	c, err := New(t.TempDir(), 0, true)
	if err != nil {
		t.Fatal(err)
	}

	type row struct {
		Class string `json:"class"`
		DIT   int    `json:"dit"`
	}
	in := []row{{"Base", 0}, {"Child", 1}}
	if err := c.Store("k", "h", in); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	var out []row
	if !c.Load("k", "h", &out) {
		t.Fatal("Load() should hit")
	}
	if len(out) != 2 || out[1].Class != "Child" || out[1].DIT != 1 {
		t.Errorf("Load() = %+v", out)
	}

	if c.Load("k", "other", &out) {
		t.Error("Load() should miss on hash mismatch")
	}
}

func TestExpiredEntry(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetWithHash("k", "h", []byte(`1`)); err != nil {
		t.Fatal(err)
	}

	// shorten the TTL instead of waiting an hour
	c.ttl = time.Nanosecond
	time.Sleep(time.Millisecond)

	if _, ok := c.GetWithHash("k", "h"); ok {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.keyPath("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 24, false)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetWithHash("k", "h", []byte(`1`)); err != nil {
		t.Errorf("SetWithHash() on disabled cache error: %v", err)
	}
	if _, ok := c.GetWithHash("k", "h"); ok {
		t.Error("disabled cache should never hit")
	}
	if err := c.Store("k", "h", 1); err != nil {
		t.Errorf("Store() on disabled cache error: %v", err)
	}
	if err := c.Invalidate("k"); err != nil {
		t.Errorf("Invalidate() on disabled cache error: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() on disabled cache error: %v", err)
	}
	stats, err := c.GetStats()
	if err != nil || stats.Entries != 0 {
		t.Errorf("GetStats() = %+v, %v", stats, err)
	}
}

func TestInvalidateClearAndStats(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, 24, true)
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.SetWithHash(k, "h", []byte(`"`+k+`"`)); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("Entries = %d, want 3", stats.Entries)
	}
	if stats.TotalSize <= 0 {
		t.Error("TotalSize should be positive")
	}

	if err := c.Invalidate("a"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok := c.GetWithHash("a", "h"); ok {
		t.Error("invalidated entry should miss")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Clear() should remove the cache directory")
	}
	stats, err = c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() after Clear error: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries after Clear = %d, want 0", stats.Entries)
	}
}
