// Package graph resolves article references into a dense citation
// adjacency matrix and computes structural importance metrics over it.
package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pmarcenaro/lexgraph/corpus"
)

// Matrix is a dense square adjacency matrix over corpus rows. Cell (i, j)
// is 1 when article i references article j by identifier, else 0. Row and
// column order is the corpus order at build time; the matrix itself carries
// no labels, so the corpus it was built from is required to recover node
// names.
type Matrix struct {
	n     int
	cells []float64
}

// NewMatrix returns an n×n zero matrix.
func NewMatrix(n int) *Matrix {
	return &Matrix{n: n, cells: make([]float64, n*n)}
}

// Size returns the node count.
func (m *Matrix) Size() int { return m.n }

// At returns cell (i, j).
func (m *Matrix) At(i, j int) float64 { return m.cells[i*m.n+j] }

// Set assigns cell (i, j).
func (m *Matrix) Set(i, j int, v float64) { m.cells[i*m.n+j] = v }

// Rows returns the matrix as a slice of rows. Intended for tests and
// diagnostics; the returned slices alias the matrix storage.
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := 0; i < m.n; i++ {
		rows[i] = m.cells[i*m.n : (i+1)*m.n]
	}
	return rows
}

// Build resolves each article's reference list against the corpus
// identifier space. Unresolved references contribute no edge and raise no
// error: reference sets gathered in all-references mode routinely point
// outside the filtered corpus. Duplicate identifiers resolve to the
// first-seen row index. Self-references are recorded as-is.
func Build(c corpus.Corpus) *Matrix {
	m := NewMatrix(len(c))
	index := c.IndexByIdentifier()
	for i, rec := range c {
		for _, ref := range rec.References {
			j, ok := index[ref]
			if !ok {
				continue
			}
			m.Set(i, j, 1)
		}
	}
	return m
}

// matrixMagic identifies the matrix artifact format.
const matrixMagic = "LXM1"

// Save writes the matrix as a dense binary artifact: a 4-byte magic, the
// dimension as uint32, then row-major little-endian float64 cells.
func (m *Matrix) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating matrix directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating matrix file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(matrixMagic); err != nil {
		return fmt.Errorf("writing matrix header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.n)); err != nil {
		return fmt.Errorf("writing matrix dimension: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.cells); err != nil {
		return fmt.Errorf("writing matrix cells: %w", err)
	}
	return w.Flush()
}

// LoadMatrix reads a matrix artifact written by Save.
func LoadMatrix(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening matrix file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic := make([]byte, len(matrixMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading matrix header: %w", err)
	}
	if string(magic) != matrixMagic {
		return nil, fmt.Errorf("matrix %s: unrecognized format %q", path, magic)
	}

	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("reading matrix dimension: %w", err)
	}
	m := NewMatrix(int(n))
	if err := binary.Read(r, binary.LittleEndian, m.cells); err != nil {
		return nil, fmt.Errorf("reading matrix cells: %w", err)
	}
	return m, nil
}

// undirected returns symmetrized neighbour lists: j is a neighbour of i
// when either directed edge exists. All three centrality measures run over
// this undirected interpretation of the citation structure.
func (m *Matrix) undirected() [][]int {
	adj := make([][]int, m.n)
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if m.At(i, j) != 0 || m.At(j, i) != 0 {
				adj[i] = append(adj[i], j)
			}
		}
	}
	return adj
}
