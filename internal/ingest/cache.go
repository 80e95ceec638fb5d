package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/agentic-research/potoo/api"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of parse results a Cache keeps.
const DefaultCacheSize = 128

// Cache memoizes parse results by content hash. It is safe for concurrent
// use; repeated parses of unchanged files (e.g. on every watch event) are
// served from memory.
type Cache struct {
	parser *Parser
	lru    *lru.Cache[string, *api.ParseResult]
}

// NewCache wraps p with an LRU of the given size.
func NewCache(p *Parser, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.New[string, *api.ParseResult](size)
	if err != nil {
		return nil, fmt.Errorf("create parse cache: %w", err)
	}
	if p == nil {
		p = &Parser{}
	}
	return &Cache{parser: p, lru: l}, nil
}

// Parse returns the cached result for src, parsing it on a miss. Results are
// copied so callers may modify them.
func (c *Cache) Parse(ctx context.Context, src []byte) (*api.ParseResult, error) {
	sum := sha256.Sum256(src)
	key := hex.EncodeToString(sum[:])

	if res, ok := c.lru.Get(key); ok {
		return copyResult(res), nil
	}
	res, err := c.parser.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, res)
	return copyResult(res), nil
}

// Len reports the number of cached results.
func (c *Cache) Len() int { return c.lru.Len() }

func copyResult(r *api.ParseResult) *api.ParseResult {
	if r == nil {
		return nil
	}
	return &api.ParseResult{
		Imports:    slices.Clone(r.Imports),
		AppBuilder: slices.Clone(r.AppBuilder),
	}
}
