// Package buildcache is a size-bounded, hard-link-based, LRU-evicted cache
// of compiled object files, keyed by an opaque string the caller derives
// however it likes (the compiler package keys by compiler, flags, and the
// source file's content hash, never its path, so an edited file never
// collides with the object built from its old bytes). Two configurations
// compiling byte-identical source with identical flags share one cache
// entry instead of recompiling. The cache is optional: a build with no
// cache configured behaves exactly as if the cache did not exist.
package buildcache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

type cachedFile struct {
	pathInCache string
	fileSize    int64
	lruNode     *lruNode
}

type lruNode struct {
	next, prev *lruNode
	key        string
}

const shardsDirCount = 256

// FileCache is a directory where compiled objects are saved and retrieved
// by cache key. It is limited in size by LRU eviction: when its size
// exceeds hardLimit, the least-recently-used entries are deleted.
type FileCache struct {
	table            map[string]cachedFile
	lruTail, lruHead *lruNode
	mu               sync.RWMutex

	lastIndex   int64
	purgedCount int64
	cacheDir    string

	totalSizeOnDisk int64
	hardLimit       int64
	softLimit       int64
}

func createSubdirs(cacheDir string) error {
	for i := 0; i < shardsDirCount; i++ {
		dir := filepath.Join(cacheDir, fmt.Sprintf("%X", i))
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}

// NewFileCache returns a FileCache rooted at cacheDir, bounded by
// limitBytes. cacheDir's shard subdirectories are created if absent.
func NewFileCache(cacheDir string, limitBytes int64) (*FileCache, error) {
	if err := createSubdirs(cacheDir); err != nil {
		return nil, err
	}

	return &FileCache{
		table:     make(map[string]cachedFile, 1024),
		cacheDir:  cacheDir,
		hardLimit: limitBytes,
		softLimit: int64(80.0 * (float64(limitBytes) / 100.0)),
	}, nil
}

func (cache *FileCache) lookup(key string) string {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	cf := cache.table[key]
	if cf.lruNode != nil && cf.lruNode != cache.lruHead {
		cf.lruNode.prev.next = cf.lruNode.next
		if cf.lruNode.next == nil {
			cache.lruTail = cf.lruNode.prev
		} else {
			cf.lruNode.next.prev = cf.lruNode.prev
		}

		cf.lruNode.prev = nil
		cf.lruNode.next = cache.lruHead
		cache.lruHead.prev = cf.lruNode
		cache.lruHead = cf.lruNode
	}

	return cf.pathInCache // empty if absent
}

// Fetch hard-links the cached object for key to dst, returning true on a
// hit. dst's parent directory must already exist.
func (cache *FileCache) Fetch(key string, dst string) bool {
	pathInCache := cache.lookup(key)
	if pathInCache == "" {
		return false
	}

	if err := os.Link(pathInCache, dst); err != nil && !os.IsExist(err) {
		return false
	}
	return true
}

// Store hard-links src (a freshly produced object file) into the cache
// under key, evicting older entries if the hard limit is exceeded.
func (cache *FileCache) Store(key string, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	uniqueID := atomic.AddInt64(&cache.lastIndex, 1)
	pathInCache := filepath.Join(cache.cacheDir, fmt.Sprintf("%X", uniqueID%shardsDirCount), fmt.Sprintf("%X%s", uniqueID, filepath.Ext(src)))

	if err := os.Link(src, pathInCache); err != nil {
		return err
	}

	newHead := &lruNode{key: key}
	value := cachedFile{pathInCache: pathInCache, fileSize: info.Size(), lruNode: newHead}

	cache.mu.Lock()
	_, exists := cache.table[key]
	if !exists {
		atomic.AddInt64(&cache.totalSizeOnDisk, info.Size())
		cache.table[key] = value
		newHead.next = cache.lruHead
		if cache.lruHead != nil {
			cache.lruHead.prev = newHead
		}
		cache.lruHead = newHead
		if cache.lruTail == nil {
			cache.lruTail = newHead
		}
	}
	cache.mu.Unlock()

	if exists {
		_ = os.Remove(pathInCache)
	}

	cache.purgeTillLimit(cache.hardLimit)
	return nil
}

// FilesCount returns the number of entries currently tracked.
func (cache *FileCache) FilesCount() int64 {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return int64(len(cache.table))
}

// BytesOnDisk returns the total size of cached objects.
func (cache *FileCache) BytesOnDisk() int64 {
	return atomic.LoadInt64(&cache.totalSizeOnDisk)
}

// PurgedCount returns how many entries have been evicted since creation.
func (cache *FileCache) PurgedCount() int64 {
	return atomic.LoadInt64(&cache.purgedCount)
}

func (cache *FileCache) purgeTillLimit(limit int64) {
	for atomic.LoadInt64(&cache.totalSizeOnDisk) > limit {
		var removed cachedFile
		cache.mu.Lock()
		if tail := cache.lruTail; tail != nil && tail.prev != nil {
			cache.lruTail = tail.prev
			cache.lruTail.next = nil
			removed = cache.table[tail.key]
			delete(cache.table, tail.key)
		} else {
			cache.mu.Unlock()
			break
		}
		cache.mu.Unlock()

		if removed.lruNode != nil {
			_ = os.Remove(removed.pathInCache)
			atomic.AddInt64(&cache.totalSizeOnDisk, -removed.fileSize)
			atomic.AddInt64(&cache.purgedCount, 1)
		}
	}
}
