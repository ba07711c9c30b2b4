// Package cache stores generated programs keyed by a hash of everything
// that determines them.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// Ext is the file extension of cache entries.
const Ext = ".ifjcode"

// Cache is a directory of generated programs.
type Cache struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// New returns a cache in dir. Entries older than maxAge are misses; a zero
// maxAge keeps entries forever.
func New(dir string, maxAge time.Duration) *Cache {
	return &Cache{dir: dir, maxAge: maxAge, now: time.Now}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Key hashes the compiler version, the configuration fingerprint and the
// source text.
func Key(version, fingerprint string, source []byte) string {
	h := blake3.New()
	fmt.Fprintf(h, "ifjc %s\n%s\n", version, fingerprint)
	hs := blake3.New()
	hs.Write(source)
	fmt.Fprintf(h, "src: %x\n", hs.Sum(nil))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key+Ext)
}

// Get returns the program stored under key. ok is false on a miss.
func (c *Cache) Get(key string) (code []byte, ok bool, err error) {
	p := c.path(key)
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.expired(info) {
		return nil, false, nil
	}
	code, err = os.ReadFile(p)
	if err != nil {
		return nil, false, err
	}
	return code, true, nil
}

// Put stores code under key. The entry is written to a temporary file
// first so readers never see a partial program.
func (c *Cache) Put(key string, code []byte) error {
	p := c.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), key+".*.tmp")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if _, err := tmp.Write(code); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Clean removes expired entries and returns how many were removed.
func (c *Cache) Clean() (int, error) {
	removed := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, Ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !c.expired(info) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

func (c *Cache) expired(info fs.FileInfo) bool {
	return c.maxAge > 0 && c.now().Sub(info.ModTime()) > c.maxAge
}
