package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pmarcenaro/lexgraph/corpus"
)

var (
	// ErrDegenerateGraph is returned when the graph has too few nodes for
	// a measure to be defined (degree normalisation divides by n-1).
	ErrDegenerateGraph = errors.New("lexgraph: graph has fewer than two nodes")

	// ErrNoConvergence is returned when an iterative centrality
	// computation exhausts its iteration budget before converging.
	ErrNoConvergence = errors.New("lexgraph: centrality iteration did not converge")
)

// Options bound the iterative centrality computations.
type Options struct {
	Damping float64 // PageRank damping factor; 0 means 0.85
	MaxIter int     // iteration budget; 0 means 100
	Tol     float64 // per-node convergence tolerance; 0 means 1e-6
}

func (o Options) withDefaults() Options {
	if o.Damping == 0 {
		o.Damping = 0.85
	}
	if o.MaxIter == 0 {
		o.MaxIter = 100
	}
	if o.Tol == 0 {
		o.Tol = 1e-6
	}
	return o
}

// Row pairs one article with its computed measures. Rows are ordered by
// corpus index. Identifier is the canonical key; Name is attached for
// presentation only and is not guaranteed unique, so results are paired
// rather than keyed by it.
type Row struct {
	Identifier            string  `json:"link"`
	Name                  string  `json:"name"`
	DegreeCentrality      float64 `json:"degree_centrality"`
	EigenvectorCentrality float64 `json:"eigenvector_centrality"`
	PageRank              float64 `json:"pagerank"`
}

// Compute derives degree centrality, eigenvector centrality, and PageRank
// from the adjacency matrix. c must be the corpus the matrix was built
// from: matrix position i is paired with c[i], since the matrix artifact
// carries no labels. A failure in any measure aborts the computation and
// is wrapped with the metric that failed.
func Compute(m *Matrix, c corpus.Corpus, opts Options) ([]Row, error) {
	if m.Size() != len(c) {
		return nil, fmt.Errorf("graph: matrix dimension %d does not match corpus size %d", m.Size(), len(c))
	}

	degree, err := DegreeCentrality(m)
	if err != nil {
		return nil, fmt.Errorf("degree centrality: %w", err)
	}
	eigen, err := EigenvectorCentrality(m, opts)
	if err != nil {
		return nil, fmt.Errorf("eigenvector centrality: %w", err)
	}
	rank, err := PageRank(m, opts)
	if err != nil {
		return nil, fmt.Errorf("pagerank: %w", err)
	}

	rows := make([]Row, len(c))
	for i, rec := range c {
		rows[i] = Row{
			Identifier:            rec.Identifier,
			Name:                  rec.Name,
			DegreeCentrality:      degree[i],
			EigenvectorCentrality: eigen[i],
			PageRank:              rank[i],
		}
	}
	slog.Info("graph: centrality computed", "nodes", len(rows))
	return rows, nil
}

// DegreeCentrality returns degree/(n-1) per node over the undirected
// interpretation of the citation structure: a one-way citation counts at
// both endpoints, a mutual pair collapses to a single shared edge, and a
// self-loop counts twice.
func DegreeCentrality(m *Matrix) ([]float64, error) {
	n := m.Size()
	if n <= 1 {
		return nil, fmt.Errorf("%w: %d nodes", ErrDegenerateGraph, n)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m.At(i, j) != 0 || m.At(j, i) != 0 {
				out[i]++
				if i == j {
					out[i]++ // self-loop contributes both endpoints
				}
			}
		}
	}
	norm := float64(n - 1)
	for i := range out {
		out[i] /= norm
	}
	return out, nil
}

// EigenvectorCentrality computes the dominant eigenvector of the
// symmetrized adjacency structure by power iteration, normalised to unit
// Euclidean norm. The iteration adds the previous vector each round so
// bipartite structures do not oscillate. Convergence is declared when the
// L1 change drops below n*tol within the iteration budget; otherwise the
// budget exhaustion is surfaced as ErrNoConvergence, never silently
// approximated.
func EigenvectorCentrality(m *Matrix, opts Options) ([]float64, error) {
	opts = opts.withDefaults()
	n := m.Size()
	if n <= 1 {
		return nil, fmt.Errorf("%w: %d nodes", ErrDegenerateGraph, n)
	}

	adj := m.undirected()
	x := make([]float64, n)
	for i := range x {
		x[i] = 1.0 / float64(n)
	}
	next := make([]float64, n)

	for iter := 0; iter < opts.MaxIter; iter++ {
		copy(next, x)
		for u, nbrs := range adj {
			for _, v := range nbrs {
				next[v] += x[u]
			}
		}

		var norm float64
		for _, v := range next {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			norm = 1
		}

		var delta float64
		for i := range next {
			next[i] /= norm
			delta += math.Abs(next[i] - x[i])
		}
		copy(x, next)

		if delta < float64(n)*opts.Tol {
			return x, nil
		}
	}
	return nil, fmt.Errorf("%w after %d iterations", ErrNoConvergence, opts.MaxIter)
}

// PageRank runs the standard damping-factor random walk over the
// symmetrized adjacency structure. Mass from isolated (dangling) nodes is
// redistributed uniformly, so the values sum to 1. Failure semantics match
// EigenvectorCentrality.
func PageRank(m *Matrix, opts Options) ([]float64, error) {
	opts = opts.withDefaults()
	n := m.Size()
	if n == 0 {
		return nil, fmt.Errorf("%w: empty graph", ErrDegenerateGraph)
	}

	adj := m.undirected()
	d := opts.Damping
	base := (1 - d) / float64(n)

	x := make([]float64, n)
	for i := range x {
		x[i] = 1.0 / float64(n)
	}

	for iter := 0; iter < opts.MaxIter; iter++ {
		next := make([]float64, n)
		var dangling float64
		for u, nbrs := range adj {
			if len(nbrs) == 0 {
				dangling += x[u]
				continue
			}
			share := d * x[u] / float64(len(nbrs))
			for _, v := range nbrs {
				next[v] += share
			}
		}
		spread := d * dangling / float64(n)

		var delta float64
		for i := range next {
			next[i] += base + spread
			delta += math.Abs(next[i] - x[i])
		}
		x = next

		if delta < float64(n)*opts.Tol {
			return x, nil
		}
	}
	return nil, fmt.Errorf("%w after %d iterations", ErrNoConvergence, opts.MaxIter)
}
