// Package unionfind is a small generic disjoint-set helper used to build
// equivalence classes from a pairwise predicate, as the rectangle
// grouper does over the "similar rectangles" relation.
package unionfind

// UnionFind is a disjoint-set-union structure over n elements
// (0..n-1), with path compression on Find.
type UnionFind struct {
	parent []int
	rank   []int
}

// New creates a UnionFind where every element starts in its own set.
func New(n int) *UnionFind {
	u := &UnionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

// Find returns the representative of i's set, compressing the path.
func (u *UnionFind) Find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

// Union merges the sets containing a and b.
func (u *UnionFind) Union(a, b int) {
	ra, rb := u.Find(a), u.Find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// BuildClasses partitions n elements into equivalence classes using
// same(i, j), via transitive closure over pairwise unions (symmetry is
// required of same; transitivity is an approximation when same itself
// isn't transitive, matching the legacy grouping behavior).
func BuildClasses(n int, same func(i, j int) bool) (labels []int, classCount int) {
	u := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if same(i, j) {
				u.Union(i, j)
			}
		}
	}

	labels = make([]int, n)
	remap := make(map[int]int)
	for i := 0; i < n; i++ {
		root := u.Find(i)
		id, ok := remap[root]
		if !ok {
			id = classCount
			remap[root] = id
			classCount++
		}
		labels[i] = id
	}
	return labels, classCount
}
