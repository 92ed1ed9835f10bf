package kdtree

import (
	"context"
	"math"

	"github.com/doquedb/qxkernel/value"
	"github.com/doquedb/qxkernel/worker"
)

// itemsPerWorker bounds DoSearch's thread count the same way spec.md
// §4.8 bounds CalcVariance's: at most one worker per 100,000 candidate
// rows in a partition.
const itemsPerWorker = 100000

// Candidate is one row DoSearch considers: its key and its coordinate
// vector in the KD-tree's indexed dimensions.
type Candidate struct {
	Key   *value.Value
	Point []float64
}

type neighbor struct {
	key  *value.Value
	dist float64
}

// DoSearch is the KD-tree nearest-neighbor iterator's worker-fan-out
// core (spec.md §4.8/§5): it scatters sqDist(query, candidate) across a
// bounded pool of worker goroutines — one private scan per partition,
// pulling the next candidate batch under the shared fan-out, same shape
// as the teacher's ConcurrentMapFuncWithError generalized in
// worker.Map — then merges each partition's best-k into a single
// k-nearest result, sorted by distance ascending.
func DoSearch(ctx context.Context, candidates []Candidate, query []float64, k int) ([]*value.Value, error) {
	if len(candidates) == 0 || k <= 0 {
		return nil, nil
	}

	partitions := partitionCandidates(candidates, itemsPerWorker)
	concurrency := len(partitions)

	partials, err := worker.Map(partitions, concurrency, func(part []Candidate) ([]neighbor, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		return bestK(part, query, k), nil
	})
	if err != nil {
		return nil, err
	}

	merged := make([]neighbor, 0, len(partials)*k)
	for _, p := range partials {
		merged = append(merged, p...)
	}
	sortNeighborsByDistance(merged)
	if len(merged) > k {
		merged = merged[:k]
	}

	out := make([]*value.Value, len(merged))
	for i, n := range merged {
		out[i] = n.key
	}
	return out, nil
}

func partitionCandidates(candidates []Candidate, size int) [][]Candidate {
	var out [][]Candidate
	for i := 0; i < len(candidates); i += size {
		end := i + size
		if end > len(candidates) {
			end = len(candidates)
		}
		out = append(out, candidates[i:end])
	}
	return out
}

func sqDist(a, b []float64) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// bestK returns the k candidates in part closest to query, ascending by
// distance.
func bestK(part []Candidate, query []float64, k int) []neighbor {
	all := make([]neighbor, len(part))
	for i, c := range part {
		all[i] = neighbor{key: c.Key, dist: math.Sqrt(sqDist(c.Point, query))}
	}
	sortNeighborsByDistance(all)
	if len(all) > k {
		all = all[:k]
	}
	return all
}

func sortNeighborsByDistance(n []neighbor) {
	for i := 1; i < len(n); i++ {
		for j := i; j > 0 && n[j-1].dist > n[j].dist; j-- {
			n[j-1], n[j] = n[j], n[j-1]
		}
	}
}
