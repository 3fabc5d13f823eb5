package walkroute

// openItem is an entry of the open set: node index with f-score it was pushed with.
// g is kept to recognize stale entries, seq breaks ties between equal f-scores in insertion order.
type openItem struct {
	node int
	f    float64
	g    float64
	seq  uint64
}

// openSet is a min-heap of openItem ordered by (f, seq).
// It is used with container/heap and the lazy decrease-key strategy: an improved node is pushed again,
// outdated entries stay in the heap and are skipped when popped.
type openSet []openItem

func (pq openSet) Len() int { return len(pq) }

func (pq openSet) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq openSet) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *openSet) Push(x interface{}) { *pq = append(*pq, x.(openItem)) }

func (pq *openSet) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
