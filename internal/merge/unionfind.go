package merge

// UnionFind implements union-find over dense int ids with path compression.
// The smaller root always stays canonical, so the representative of a set is
// its minimum id regardless of union order.
type UnionFind struct {
	parent map[int]int
}

// NewUnionFind creates a new UnionFind where each id is its own component
func NewUnionFind(ids ...int) *UnionFind {
	uf := &UnionFind{parent: make(map[int]int, len(ids))}
	for _, id := range ids {
		uf.Add(id)
	}
	return uf
}

// Add inserts id as a singleton. No-op if already present.
func (uf *UnionFind) Add(id int) {
	if _, ok := uf.parent[id]; ok {
		return
	}
	uf.parent[id] = id
}

// Find returns the root of the component containing id, with path compression
func (uf *UnionFind) Find(id int) int {
	root := id
	for {
		parent, ok := uf.parent[root]
		if !ok || parent == root {
			break
		}
		root = parent
	}
	for id != root {
		next := uf.parent[id]
		uf.parent[id] = root
		id = next
	}
	return root
}

// Union merges the components containing a and b and returns the surviving
// root. The second result is false when they were already joined.
func (uf *UnionFind) Union(a, b int) (int, bool) {
	rootA := uf.Find(a)
	rootB := uf.Find(b)
	if rootA == rootB {
		return rootA, false
	}
	if rootB < rootA {
		rootA, rootB = rootB, rootA
	}
	uf.parent[rootB] = rootA
	return rootA, true
}
