package vector

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// indexMagic identifies the on-disk index format.
const indexMagic uint32 = 0x51475658 // "QGVX"

var (
	// ErrDimensionMismatch is returned when a vector does not match the
	// dimension the index was created with.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrEmptyIndex is returned when searching an index with no rows.
	ErrEmptyIndex = errors.New("index contains no vectors")
)

// Index is an exact (brute-force) L2-distance nearest-neighbor index over
// fixed-dimension float32 vectors. Rows are addressed by the zero-based
// insertion order, which matches the chunk corpus row order.
//
// An Index is append-only during the offline build and read-only at query
// time; rebuilding from scratch is the supported update path.
type Index struct {
	dim  int
	data []float32 // row-major, len = count*dim
}

// NewIndex creates an empty index for vectors of the given dimension.
func NewIndex(dim int) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid index dimension %d", dim)
	}
	return &Index{dim: dim}, nil
}

// Dim returns the vector dimension of the index.
func (idx *Index) Dim() int {
	return idx.dim
}

// Len returns the number of vectors stored in the index.
func (idx *Index) Len() int {
	return len(idx.data) / idx.dim
}

// Add appends vectors to the index in order. Every vector must match the
// index dimension.
func (idx *Index) Add(vectors ...[]float32) error {
	for _, vec := range vectors {
		if len(vec) != idx.dim {
			return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), idx.dim)
		}
		idx.data = append(idx.data, vec...)
	}
	return nil
}

// Result is a single nearest-neighbor hit.
type Result struct {
	Row      int
	Distance float32
}

// Search returns the topK rows nearest to query by squared L2 distance,
// ordered by ascending distance. topK larger than the number of stored
// vectors is clamped; it never errors for that reason.
func (idx *Index) Search(query []float32, topK int) ([]Result, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), idx.dim)
	}
	count := idx.Len()
	if count == 0 {
		return nil, ErrEmptyIndex
	}
	if topK <= 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results := make([]Result, count)
	for row := 0; row < count; row++ {
		offset := row * idx.dim
		var dist float32
		for i := 0; i < idx.dim; i++ {
			d := idx.data[offset+i] - query[i]
			dist += d * d
		}
		results[row] = Result{Row: row, Distance: dist}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	return results[:topK], nil
}

// Write persists the index to a binary file: a fixed header followed by
// the row-major vector data as little-endian float32 values. The file is
// only valid together with the chunk corpus written from the same build.
func (idx *Index) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := []uint32{indexMagic, uint32(idx.dim), uint32(idx.Len())}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write index header: %w", err)
		}
	}
	for _, v := range idx.data {
		if err := binary.Write(w, binary.LittleEndian, math.Float32bits(v)); err != nil {
			return fmt.Errorf("write index data: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush index file: %w", err)
	}
	return nil
}

// Read loads an index previously persisted with Write.
func Read(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic, dim, count uint32
	for _, v := range []*uint32{&magic, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("read index header: %w", err)
		}
	}
	if magic != indexMagic {
		return nil, fmt.Errorf("unrecognized index file %s", path)
	}
	if dim == 0 {
		return nil, fmt.Errorf("index file %s has zero dimension", path)
	}

	data := make([]float32, int(dim)*int(count))
	for i := range data {
		var bits uint32
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return nil, fmt.Errorf("read index data: %w", err)
		}
		data[i] = math.Float32frombits(bits)
	}

	return &Index{dim: int(dim), data: data}, nil
}
