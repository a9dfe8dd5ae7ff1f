package scipws

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"codeslice/internal/errors"
	"codeslice/internal/logging"
)

// Cache holds loaded workspaces keyed by index path and modification time,
// so repeated extractions against an unchanged index share one load. The
// cache is an explicit handle with clear lifetime, intended for a single
// goroutine; sharing across invocations is read-only.
type Cache struct {
	entries *lru.Cache[string, *Workspace]
	logger  *logging.Logger
}

// NewCache creates a workspace cache bounded to size entries
func NewCache(size int, logger *logging.Logger) (*Cache, error) {
	if size < 1 {
		return nil, errors.Newf(errors.InvalidArgument, nil, "cache size must be >= 1, got %d", size)
	}
	entries, err := lru.New[string, *Workspace](size)
	if err != nil {
		return nil, errors.New(errors.Internal, "cannot create workspace cache", err)
	}
	return &Cache{entries: entries, logger: logger}, nil
}

// Load returns the cached workspace for indexPath, loading it on miss. A
// changed index modification time invalidates the cached entry.
func (c *Cache) Load(indexPath, sourceRoot string) (*Workspace, error) {
	info, err := os.Stat(indexPath)
	if err != nil {
		return nil, errors.Newf(errors.WorkspaceLoad, err, "SCIP index not found at %s", indexPath)
	}
	key := fmt.Sprintf("%s|%d", indexPath, info.ModTime().UnixNano())

	if ws, ok := c.entries.Get(key); ok {
		c.logger.Debug("workspace cache hit", "index", indexPath)
		return ws, nil
	}

	ws, err := Load(indexPath, sourceRoot, c.logger)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, ws)
	return ws, nil
}

// Purge drops every cached workspace
func (c *Cache) Purge() {
	c.entries.Purge()
}
