// Package match ranks candidate study partners for a seeker by a
// multi-factor compatibility score and drains them best-first.
package match

import (
	"container/heap"
	"strings"

	"github.com/hpungsan/studymatch/internal/errors"
	"github.com/hpungsan/studymatch/internal/student"
)

// Match is one ranked candidate with the intersections the caller displays.
// Shared sets are computed at retrieval time from the live seeker record and
// returned sorted for deterministic output.
type Match struct {
	Student            *student.Student
	Score              int
	SharedCourses      []string
	SharedAvailability []string
}

// Ranking is the scored ordering produced by one FindMatches pass. Entries
// drain best-first via Next; there is no implicit re-population. Re-invoke
// FindMatches to rank again.
type Ranking struct {
	seeker *student.Student
	heap   matchHeap
}

// Len returns the number of candidates not yet drained.
func (r *Ranking) Len() int {
	if r == nil {
		return 0
	}
	return r.heap.Len()
}

// Next removes and returns the highest-scoring remaining candidate. The
// second call yields the second-best, and so on until the ranking is empty.
func (r *Ranking) Next() (Match, bool) {
	if r == nil || r.heap.Len() == 0 {
		return Match{}, false
	}
	e := heap.Pop(&r.heap).(entry)
	return Match{
		Student:            e.cand,
		Score:              e.score,
		SharedCourses:      r.seeker.Courses.Intersect(e.cand.Courses).Sorted(),
		SharedAvailability: r.seeker.Availability.Intersect(e.cand.Availability).Sorted(),
	}, true
}

// All drains every remaining candidate in rank order.
func (r *Ranking) All() []Match {
	out := make([]Match, 0, r.Len())
	for {
		m, ok := r.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

// Matcher scores one seeker against a roster of student records and retains
// the resulting ranking. It owns the record map passed at construction and is
// not safe for concurrent use; callers serialize access.
type Matcher struct {
	records map[string]*student.Student
	ranking *Ranking
	seeker  string
}

// NewMatcher creates a Matcher over the given records, keyed by EID.
func NewMatcher(records map[string]*student.Student) *Matcher {
	return &Matcher{records: records}
}

// Len returns the number of records in the roster.
func (m *Matcher) Len() int {
	return len(m.records)
}

// Get returns the record for eid, or nil when absent.
func (m *Matcher) Get(eid string) *student.Student {
	return m.records[eid]
}

// FindMatches scores every record other than the seeker, ranks them
// best-first, and returns the ranking. Any previous ranking state is
// discarded first. Returns NOT_FOUND when the seeker is absent.
func (m *Matcher) FindMatches(seekerEID string) (*Ranking, error) {
	m.ranking = nil
	m.seeker = ""

	seeker, ok := m.records[seekerEID]
	if !ok {
		return nil, errors.NewNotFound(seekerEID)
	}

	h := make(matchHeap, 0, len(m.records)-1)
	for eid, cand := range m.records {
		if eid == seekerEID {
			continue
		}
		h = append(h, entry{score: Score(seeker, cand), cand: cand})
	}
	heap.Init(&h)

	m.ranking = &Ranking{seeker: seeker, heap: h}
	m.seeker = seekerEID
	return m.ranking, nil
}

// BestMatch removes and returns the highest-scoring remaining candidate from
// the ranking computed by the last FindMatches call for seekerEID. Returns
// false when no ranking exists, the ranking was computed for a different
// seeker, or all candidates have been drained. This is a destructive read:
// two successive calls return the best and second-best candidates.
func (m *Matcher) BestMatch(seekerEID string) (Match, bool) {
	if m.ranking == nil || m.seeker != seekerEID {
		return Match{}, false
	}
	return m.ranking.Next()
}

// AddResource appends trimmed text to the record's resource list. Returns
// NOT_FOUND for an unknown eid; empty or whitespace-only text is silently
// ignored.
func (m *Matcher) AddResource(eid, text string) error {
	s, ok := m.records[eid]
	if !ok {
		return errors.NewNotFound(eid)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	s.Resources = append(s.Resources, text)
	return nil
}

// Resources returns a copy of the record's resource list. Returns an empty
// slice when the eid is unknown or the record has no resources.
func (m *Matcher) Resources(eid string) []string {
	s, ok := m.records[eid]
	if !ok || len(s.Resources) == 0 {
		return []string{}
	}
	out := make([]string, len(s.Resources))
	copy(out, s.Resources)
	return out
}
