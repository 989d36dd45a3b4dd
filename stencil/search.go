package stencil

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
)

// Searcher answers nearest-neighbour queries over a fixed point set.
// Implementations must be safe for concurrent use once constructed.
type Searcher interface {
	// Nearest returns the n points closest to point id, excluding id itself,
	// ordered by ascending squared distance with ties broken by ascending id.
	// The second result holds the matching squared distances.
	Nearest(id, n int) ([]int, []float64)
}

// NewSearcher returns the Searcher implementing strategy over points.
func NewSearcher(points []r2.Vec, strategy Strategy) Searcher {
	if strategy == BruteForce {
		return &bruteForce{points: points}
	}
	return newTreeSearch(points)
}

// distance2 is the squared Euclidean distance shared by every strategy so that
// tie detection compares bit-identical values.
func distance2(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// candidate is a point id and its squared distance to the query.
type candidate struct {
	id   int
	dist float64
}

// sortCandidates orders by distance, then id.
func sortCandidates(c []candidate) {
	sort.Slice(c, func(a, b int) bool {
		if c[a].dist != c[b].dist {
			return c[a].dist < c[b].dist
		}
		return c[a].id < c[b].id
	})
}

// firstN drops self and returns the first n remaining candidates.
func firstN(c []candidate, self, n int) ([]int, []float64) {
	ids := make([]int, 0, n)
	dists := make([]float64, 0, n)
	for _, cd := range c {
		if cd.id == self {
			continue
		}
		ids = append(ids, cd.id)
		dists = append(dists, cd.dist)
		if len(ids) == n {
			break
		}
	}
	return ids, dists
}

// bruteForce computes all pairwise distances for every query. O(N) per query,
// O(N² log N) for a whole cloud.
type bruteForce struct {
	points []r2.Vec
}

func (s *bruteForce) Nearest(id, n int) ([]int, []float64) {
	q := s.points[id]
	all := make([]candidate, len(s.points))
	for k, p := range s.points {
		all[k] = candidate{id: k, dist: distance2(q, p)}
	}
	sortCandidates(all)
	return firstN(all, id, n)
}

// treeSearch queries a k-d tree in two passes: an n+1 nearest search fixes the
// stencil radius, then a radius search collects every point inside it so that
// ties on the radius are resolved by id rather than by tree traversal order.
type treeSearch struct {
	points []r2.Vec
	tree   *kdtree.Tree
}

func newTreeSearch(points []r2.Vec) *treeSearch {
	list := make(cloudPoints, len(points))
	for k, p := range points {
		list[k] = cloudPoint{id: k, Vec: p}
	}
	return &treeSearch{
		points: points,
		tree:   kdtree.New(list, false),
	}
}

func (s *treeSearch) Nearest(id, n int) ([]int, []float64) {
	q := cloudPoint{id: id, Vec: s.points[id]}

	nearest := kdtree.NewNKeeper(n + 1)
	s.tree.NearestSet(nearest, q)
	if nearest.Len() == 0 {
		return nil, nil
	}
	radius := nearest.Heap[nearest.Len()-1].Dist

	within := kdtree.NewDistKeeper(radius)
	s.tree.NearestSet(within, q)

	found := make([]candidate, 0, within.Len())
	for _, c := range within.Heap {
		if c.Comparable == nil {
			continue
		}
		found = append(found, candidate{id: c.Comparable.(cloudPoint).id, dist: c.Dist})
	}
	sortCandidates(found)
	return firstN(found, id, n)
}

// cloudPoint is a node position tagged with its id, stored in the k-d tree.
type cloudPoint struct {
	id int
	r2.Vec
}

// Compare satisfies the axis comparisons method of the kdtree.Comparable interface.
// The dimensions are:
//
//	0 = x
//	1 = y
func (p cloudPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(cloudPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		panic("stencil: illegal dimension")
	}
}

func (p cloudPoint) Dims() int { return 2 }

func (p cloudPoint) Distance(c kdtree.Comparable) float64 {
	return distance2(p.Vec, c.(cloudPoint).Vec)
}

// cloudPoints satisfies kdtree.Interface.
type cloudPoints []cloudPoint

func (p cloudPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p cloudPoints) Len() int                              { return len(p) }
func (p cloudPoints) Pivot(d kdtree.Dim) int                { return plane{cloudPoints: p, Dim: d}.Pivot() }
func (p cloudPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type plane struct {
	kdtree.Dim
	cloudPoints
}

func (p plane) Less(i, j int) bool {
	return p.cloudPoints[i].Compare(p.cloudPoints[j], p.Dim) < 0
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.cloudPoints = p.cloudPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.cloudPoints[i], p.cloudPoints[j] = p.cloudPoints[j], p.cloudPoints[i]
}
