package driver

import (
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/buildpipeline"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/project"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/trace"
	"github.com/MicrosoftEdge/WebGL-sub003/internal/version"
)

// Current schema version - increment when the cached Result format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты трансляции на диске, ключ - хеш входа.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type diskPayload struct {
	Schema uint16  `msgpack:"schema"`
	Result *Result `msgpack:"result"`
}

// OpenDiskCache returns the cache rooted at dir, creating it if needed.
// An empty dir selects $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(dir, app string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey digests everything that affects the output of req.
func CacheKey(req Request) project.Digest {
	names := make([]string, 0, len(req.Defines))
	for name := range req.Defines {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := [][]byte{
		[]byte(version.Version),
		[]byte(strconv.Itoa(int(diskCacheSchemaVersion))),
		[]byte(req.Stage.String()),
		[]byte(req.Level.String()),
		[]byte(req.Options.String()),
	}
	for _, name := range names {
		parts = append(parts, []byte(name), []byte(req.Defines[name]))
	}
	parts = append(parts, []byte(req.Name), req.Source)
	return project.Combine(parts...)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог по первым двум символам, чтобы не раздувать один каталог.
	return filepath.Join(c.dir, "units", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a result to the disk cache.
func (c *DiskCache) Put(key project.Digest, res *Result) error {
	if c == nil || res == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&diskPayload{Schema: diskCacheSchemaVersion, Result: res}); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a cached result. A missing entry or one written by another
// schema is a miss.
func (c *DiskCache) Get(key project.Digest) (*Result, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Result == nil {
		return nil, false, nil
	}
	payload.Result.Cached = true
	return payload.Result, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}

// TranslateCached consults cache before translating and stores successful
// results. A nil cache translates directly.
func TranslateCached(ctx context.Context, cache *DiskCache, req Request) (*Result, error) {
	if cache == nil {
		return Translate(ctx, req)
	}
	key := CacheKey(req)
	if res, ok, err := cache.Get(key); err == nil && ok {
		res.Name = req.Name
		trace.Point(ctx, trace.ScopeUnit, "cache-hit", req.Name)
		buildpipeline.Emit(req.Progress, buildpipeline.Event{
			File:   req.Name,
			Stage:  buildpipeline.StageCache,
			Status: buildpipeline.StatusDone,
		})
		return res, nil
	}
	res, err := Translate(ctx, req)
	if err != nil {
		return nil, err
	}
	_ = cache.Put(key, res)
	return res, nil
}
