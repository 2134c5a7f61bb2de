package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"avatar-trainer-be/pkg/retrieval"
)

const chunksKey = "knowledge_chunks"

// IndexCache keeps the in-memory snapshot of all indexed chunks so queries do
// not hit the database per turn. Invalidated on ingest/reindex.
type IndexCache struct {
	cache *cache.Cache
}

func NewIndexCache() *IndexCache {
	// Expire after an hour as a safety net; ingestion invalidates explicitly.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &IndexCache{
		cache: c,
	}
}

func (r *IndexCache) Save(chunks []retrieval.Chunk) {
	r.cache.Set(chunksKey, chunks, cache.DefaultExpiration)
}

func (r *IndexCache) Get() ([]retrieval.Chunk, bool) {
	if x, found := r.cache.Get(chunksKey); found {
		return x.([]retrieval.Chunk), true
	}
	return nil, false
}

func (r *IndexCache) Invalidate() {
	r.cache.Delete(chunksKey)
}
