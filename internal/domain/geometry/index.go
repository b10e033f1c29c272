package geometry

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Index answers radius queries over a fixed point set. It is built once and
// is safe for concurrent readers.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// NewIndex builds a k-d tree over points. Query results refer to positions
// in points; the caller's slice is not reordered.
func NewIndex(points []Vec3) *Index {
	idx := &Index{n: len(points)}
	if len(points) == 0 {
		return idx
	}
	s := make(sites, len(points))
	for i, p := range points {
		s[i] = site{p: p, idx: i}
	}
	idx.tree = kdtree.New(s, false)
	return idx
}

// Len returns the number of indexed points.
func (x *Index) Len() int { return x.n }

// Within returns the indices of all points at distance <= r from p, in
// ascending order.
func (x *Index) Within(p Vec3, r float64) []int {
	if x.tree == nil || r < 0 {
		return nil
	}
	// site.Distance is squared, so the keeper bound is too.
	keep := kdtree.NewDistKeeper(r * r)
	x.tree.NearestSet(keep, site{p: p, idx: -1})

	out := make([]int, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		out = append(out, c.Comparable.(site).idx)
	}
	sort.Ints(out)
	return out
}

// site is an indexed point stored in the tree.
type site struct {
	p   Vec3
	idx int
}

func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.p[d] - c.(site).p[d]
}

func (s site) Dims() int { return 3 }

func (s site) Distance(c kdtree.Comparable) float64 {
	return s.p.SqDist(c.(site).p)
}

type sites []site

func (s sites) Index(i int) kdtree.Comparable         { return s[i] }
func (s sites) Len() int                              { return len(s) }
func (s sites) Pivot(d kdtree.Dim) int                { return plane{sites: s, dim: d}.Pivot() }
func (s sites) Slice(start, end int) kdtree.Interface { return s[start:end] }

// plane sorts sites along one dimension for median partitioning.
type plane struct {
	sites
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool { return p.sites[i].p[p.dim] < p.sites[j].p[p.dim] }
func (p plane) Swap(i, j int)      { p.sites[i], p.sites[j] = p.sites[j], p.sites[i] }
func (p plane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}
