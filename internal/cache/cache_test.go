package cache

import (
	"bytes"
	"os"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	src := []byte("pub fn main() void {}\n")
	base := Key("1.0.0", "strict=true comments=false", src)

	tests := []struct {
		name string
		key  string
		same bool
	}{
		{"same", Key("1.0.0", "strict=true comments=false", src), true},
		{"version", Key("1.0.1", "strict=true comments=false", src), false},
		{"fingerprint", Key("1.0.0", "strict=true comments=true", src), false},
		{"source", Key("1.0.0", "strict=true comments=false", append(src, ' ')), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.key == base) != tt.same {
				t.Errorf("key %s vs %s, same = %v", tt.key, base, tt.same)
			}
		})
	}
	if len(base) != 64 {
		t.Errorf("key length %d, want 64", len(base))
	}
}

func TestGetPut(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	key := Key("1.0.0", "", []byte("x"))

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	code := []byte(".IFJcode24\n")
	if err := c.Put(key, code); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, code) {
		t.Errorf("Get = %q, want %q", got, code)
	}

	// Overwrite.
	if err := c.Put(key, []byte("other")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got, _, _ := c.Get(key); string(got) != "other" {
		t.Errorf("Get after overwrite = %q", got)
	}
}

func TestExpiry(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	fresh := Key("1", "", []byte("fresh"))
	stale := Key("1", "", []byte("stale"))
	for _, k := range []string{fresh, stale} {
		if err := c.Put(k, []byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(c.path(stale), old, old); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := c.Get(stale); ok {
		t.Error("stale entry returned")
	}
	if _, ok, _ := c.Get(fresh); !ok {
		t.Error("fresh entry missing")
	}

	n, err := c.Clean()
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if n != 1 {
		t.Errorf("Clean removed %d entries, want 1", n)
	}
	if _, err := os.Stat(c.path(stale)); !os.IsNotExist(err) {
		t.Errorf("stale entry still on disk: %v", err)
	}

	forever := New(c.Dir(), 0)
	if err := os.Chtimes(c.path(fresh), old, old); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := forever.Get(fresh); !ok {
		t.Error("entry expired with max age 0")
	}
}

func TestCleanMissingDir(t *testing.T) {
	c := New(t.TempDir()+"/none", time.Hour)
	if n, err := c.Clean(); n != 0 || err != nil {
		t.Errorf("Clean = %d, %v", n, err)
	}
}
