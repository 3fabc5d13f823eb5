package walkroute

// GraphStats is a summary of graph shape
type GraphStats struct {
	Nodes            int     `diff:"nodes"`
	Edges            int     `diff:"edges"`
	Directed         bool    `diff:"directed"`
	Components       int     `diff:"components"`
	LargestComponent int     `diff:"largest_component"`
	IsolatedNodes    int     `diff:"isolated_nodes"`
	MaxDegree        int     `diff:"max_degree"`
	MeanDegree       float64 `diff:"mean_degree"`
	TotalWeight      float64 `diff:"total_weight"`
}

// Stats computes summary of graph. Components are weakly connected ones
func (g *Graph) Stats() GraphStats {
	stats := GraphStats{
		Nodes:    len(g.nodes),
		Edges:    len(g.edges),
		Directed: g.directed,
	}
	if len(g.nodes) == 0 {
		return stats
	}
	degree := make([]int, len(g.nodes))
	uf := newUnionFind(len(g.nodes))
	for _, e := range g.edges {
		s, t := g.index[e.Source], g.index[e.Target]
		degree[s]++
		if s != t {
			degree[t]++
		}
		uf.union(s, t)
		stats.TotalWeight += e.Weight
	}
	sizes := make(map[int]int)
	totalDegree := 0
	for i := range g.nodes {
		sizes[uf.find(i)]++
		totalDegree += degree[i]
		if degree[i] == 0 {
			stats.IsolatedNodes++
		}
		if degree[i] > stats.MaxDegree {
			stats.MaxDegree = degree[i]
		}
	}
	stats.Components = len(sizes)
	for _, size := range sizes {
		if size > stats.LargestComponent {
			stats.LargestComponent = size
		}
	}
	stats.MeanDegree = float64(totalDegree) / float64(len(g.nodes))
	return stats
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
