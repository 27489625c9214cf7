// Package index implements the in-process vector index: one embedding per
// vehicle id, exposed through immutable versioned snapshots. Readers search
// against the snapshot they started with; writers serialize among themselves
// and publish a new version with a single atomic pointer swap, so no reader
// ever observes a half-applied upsert or delete.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
	"github.com/ShowroomAI/showroom-mvp/pkg/fn"
)

// Embedder is the embedding provider contract: deterministic for identical
// text, fixed output dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the slice of the knowledge store the index needs for rebuilds.
type Store interface {
	GetAll(ctx context.Context) ([]domain.VehicleRecord, error)
}

// DefaultStaleThreshold is the stale-to-live ratio above which a write
// triggers compaction of the entry log.
const DefaultStaleThreshold = 0.5

// entry is one embedding row in the append-only log.
type entry struct {
	id  string
	vec []float32
}

// snapshot is one immutable version of the index. entries is an append-only
// log shared between versions; live maps each id to its current row. Rows
// superseded by upserts or removed by deletes stay in the log as stale
// tombstones until compaction.
type snapshot struct {
	version uint64
	entries []entry
	live    map[string]int
	stale   int
	dims    int
}

// Snapshot is a read handle pinned to one index version.
type Snapshot struct{ s *snapshot }

// Index is the versioned vector index.
type Index struct {
	current        atomic.Pointer[snapshot]
	mu             sync.Mutex // serializes writers
	embedder       Embedder
	staleThreshold float64
	logger         *slog.Logger
}

// New creates an empty index backed by the given embedding provider.
func New(embedder Embedder, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	ix := &Index{
		embedder:       embedder,
		staleThreshold: DefaultStaleThreshold,
		logger:         logger,
	}
	ix.current.Store(&snapshot{live: map[string]int{}})
	return ix
}

// SetStaleThreshold overrides the compaction trigger ratio. Values <= 0
// restore the default.
func (ix *Index) SetStaleThreshold(r float64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if r <= 0 {
		r = DefaultStaleThreshold
	}
	ix.staleThreshold = r
}

// Version returns the currently published version number.
func (ix *Index) Version() uint64 { return ix.current.Load().version }

// Size returns the number of live entries.
func (ix *Index) Size() int { return len(ix.current.Load().live) }

// Snapshot pins the current version for a sequence of reads.
func (ix *Index) Snapshot() Snapshot { return Snapshot{s: ix.current.Load()} }

// Upsert embeds text and replaces any existing entry for id. On embedding
// failure the previous entry is retained untouched.
func (ix *Index) Upsert(ctx context.Context, id, text string) error {
	vec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("index: upsert %s: %w: %v", id, domain.ErrEmbeddingUnavailable, err)
	}
	return ix.UpsertVector(id, vec)
}

// UpsertVector replaces any existing entry for id with a precomputed vector.
func (ix *Index) UpsertVector(id string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("index: upsert %s: %w: empty vector", id, domain.ErrEmbeddingUnavailable)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	cur := ix.current.Load()
	if cur.dims != 0 && len(vec) != cur.dims {
		return fmt.Errorf("index: upsert %s: %w: got %d dims, index has %d",
			id, domain.ErrEmbeddingUnavailable, len(vec), cur.dims)
	}

	next := &snapshot{
		version: cur.version + 1,
		entries: append(cur.entries, entry{id: id, vec: vec}),
		live:    cloneLive(cur.live),
		stale:   cur.stale,
		dims:    cur.dims,
	}
	if next.dims == 0 {
		next.dims = len(vec)
	}
	if _, existed := next.live[id]; existed {
		next.stale++
	}
	next.live[id] = len(next.entries) - 1

	ix.publishLocked(next)
	return nil
}

// Delete removes the entry for id. Absent ids are a no-op, not an error.
func (ix *Index) Delete(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	cur := ix.current.Load()
	if _, ok := cur.live[id]; !ok {
		return
	}

	next := &snapshot{
		version: cur.version + 1,
		entries: cur.entries,
		live:    cloneLive(cur.live),
		stale:   cur.stale + 1,
		dims:    cur.dims,
	}
	delete(next.live, id)

	ix.publishLocked(next)
}

// publishLocked compacts if the stale ratio crossed the threshold, then
// atomically swaps in the new version. Must hold mu.
func (ix *Index) publishLocked(next *snapshot) {
	if liveCount := len(next.live); liveCount > 0 &&
		float64(next.stale)/float64(liveCount) > ix.staleThreshold {
		next = compact(next)
		ix.logger.Info("index compacted", "version", next.version, "size", liveCount)
	} else if liveCount == 0 && next.stale > 0 {
		next = compact(next)
	}
	ix.current.Store(next)
}

// compact rewrites the entry log with live rows only, keeping the version.
func compact(s *snapshot) *snapshot {
	ids := make([]string, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := &snapshot{
		version: s.version,
		entries: make([]entry, 0, len(ids)),
		live:    make(map[string]int, len(ids)),
		dims:    s.dims,
	}
	for _, id := range ids {
		out.live[id] = len(out.entries)
		out.entries = append(out.entries, s.entries[s.live[id]])
	}
	return out
}

// Rebuild re-embeds every record in the knowledge store and swaps in a fresh
// index version atomically. Idempotent; safe to run concurrently with reads
// against the prior version. Records whose embedding fails are reported
// individually and skipped.
func (ix *Index) Rebuild(ctx context.Context, store Store, workers int) error {
	records, err := store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("index: rebuild: %w", err)
	}

	results := fn.ParMapResult(records, workers, func(r domain.VehicleRecord) fn.Result[entry] {
		vec, err := ix.embedder.Embed(ctx, domain.EmbedText(r))
		if err != nil {
			return fn.Errf[entry]("rebuild %s: %w: %v", r.ID, domain.ErrEmbeddingUnavailable, err)
		}
		return fn.Ok(entry{id: r.ID, vec: vec})
	})

	fresh := &snapshot{live: map[string]int{}}
	for _, res := range results {
		e, err := res.Unwrap()
		if err != nil {
			ix.logger.Warn("index rebuild: record skipped", "err", err)
			continue
		}
		if fresh.dims == 0 {
			fresh.dims = len(e.vec)
		}
		if prev, ok := fresh.live[e.id]; ok {
			fresh.entries[prev] = e
			continue
		}
		fresh.live[e.id] = len(fresh.entries)
		fresh.entries = append(fresh.entries, e)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	fresh.version = ix.current.Load().version + 1
	ix.current.Store(fresh)
	ix.logger.Info("index rebuilt", "version", fresh.version, "size", len(fresh.live))
	return nil
}

// Search returns up to k nearest neighbors in the current version. See
// Snapshot.Search.
func (ix *Index) Search(queryVec []float32, k int) ([]domain.RankedCandidate, error) {
	return ix.Snapshot().Search(queryVec, k)
}

// Search returns up to k nearest neighbors by cosine similarity, sorted by
// descending score with ties broken by ascending id, ranks dense and
// 1-based. An empty index yields an empty result, not an error.
func (sn Snapshot) Search(queryVec []float32, k int) ([]domain.RankedCandidate, error) {
	s := sn.s
	if len(s.live) == 0 || k <= 0 {
		return []domain.RankedCandidate{}, nil
	}
	if s.dims != 0 && len(queryVec) != s.dims {
		return nil, fmt.Errorf("index: search: %w: query has %d dims, index has %d",
			domain.ErrIndexInconsistent, len(queryVec), s.dims)
	}

	candidates := make([]domain.RankedCandidate, 0, len(s.live))
	for id, i := range s.live {
		if i < 0 || i >= len(s.entries) || s.entries[i].id != id {
			return nil, fmt.Errorf("index: search: %w: live entry %s out of sync", domain.ErrIndexInconsistent, id)
		}
		candidates = append(candidates, domain.RankedCandidate{
			ID:    id,
			Score: cosine(queryVec, s.entries[i].vec),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ID < candidates[j].ID
	})

	if k < len(candidates) {
		candidates = candidates[:k]
	}
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return candidates, nil
}

// Size returns the number of live entries in this version.
func (sn Snapshot) Size() int { return len(sn.s.live) }

// Version returns this snapshot's version number.
func (sn Snapshot) Version() uint64 { return sn.s.version }

func cloneLive(m map[string]int) map[string]int {
	out := make(map[string]int, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
