package match

import "github.com/hpungsan/studymatch/internal/student"

// entry pairs a computed score with the scored candidate.
type entry struct {
	score int
	cand  *student.Student
}

// matchHeap is a max-heap over scored candidates. Equal scores break ties by
// EID ascending so drain order is stable and deterministic across runs.
type matchHeap []entry

func (h matchHeap) Len() int { return len(h) }

func (h matchHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score > h[j].score
	}
	return h[i].cand.EID < h[j].cand.EID
}

func (h matchHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *matchHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *matchHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
