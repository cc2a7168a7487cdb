package roster

import (
	"reflect"
	"testing"

	"github.com/hpungsan/studymatch/internal/errors"
)

func TestFindMatchesScenario(t *testing.T) {
	database, cfg, dir := testEnv(t)
	seedScenario(t, database, cfg, dir)

	out, err := FindMatches(database, FindMatchesInput{SeekerEID: "aavila"})
	if err != nil {
		t.Fatalf("FindMatches failed: %v", err)
	}
	if out.Total != 3 {
		t.Errorf("Total = %d, want 3", out.Total)
	}
	if len(out.Matches) != 3 {
		t.Fatalf("Matches = %d, want 3", len(out.Matches))
	}

	want := []struct {
		eid   string
		score int
	}{
		{"ajones", 71},
		{"jsmith", 62},
		{"bchen", 25},
	}
	for i, w := range want {
		if out.Matches[i].EID != w.eid || out.Matches[i].Score != w.score {
			t.Errorf("Matches[%d] = %s/%d, want %s/%d",
				i, out.Matches[i].EID, out.Matches[i].Score, w.eid, w.score)
		}
	}

	top := out.Matches[0]
	if !reflect.DeepEqual(top.SharedCourses, []string{"CS313E", "GOV310"}) {
		t.Errorf("SharedCourses = %v", top.SharedCourses)
	}
	if !reflect.DeepEqual(top.SharedAvailability, []string{"Tue10am"}) {
		t.Errorf("SharedAvailability = %v", top.SharedAvailability)
	}
	if top.Email != "alex.jones@utexas.edu" {
		t.Errorf("Email = %q", top.Email)
	}
}

func TestFindMatchesLimit(t *testing.T) {
	database, cfg, dir := testEnv(t)
	seedScenario(t, database, cfg, dir)

	out, err := FindMatches(database, FindMatchesInput{SeekerEID: "aavila", Limit: 1})
	if err != nil {
		t.Fatalf("FindMatches failed: %v", err)
	}
	if len(out.Matches) != 1 || out.Matches[0].EID != "ajones" {
		t.Fatalf("Matches = %+v, want just ajones", out.Matches)
	}
	// Total still reports the whole candidate pool.
	if out.Total != 3 {
		t.Errorf("Total = %d, want 3", out.Total)
	}
}

func TestFindMatchesUnknownSeeker(t *testing.T) {
	database, cfg, dir := testEnv(t)
	seedScenario(t, database, cfg, dir)

	_, err := FindMatches(database, FindMatchesInput{SeekerEID: "ghost"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestFindMatchesDeterministic(t *testing.T) {
	database, _, _ := testEnv(t)

	// Three identical candidates tie on score; order falls back to EID.
	for _, eid := range []string{"seeker", "cand_c", "cand_a", "cand_b"} {
		if _, err := Add(database, AddInput{
			EID: eid, Name: "N", Courses: "CS313E", Availability: "Mon3pm",
		}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	var first []string
	for run := 0; run < 5; run++ {
		out, err := FindMatches(database, FindMatchesInput{SeekerEID: "seeker"})
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}
		eids := make([]string, len(out.Matches))
		for i, m := range out.Matches {
			eids[i] = m.EID
		}
		if run == 0 {
			first = eids
			want := []string{"cand_a", "cand_b", "cand_c"}
			if !reflect.DeepEqual(eids, want) {
				t.Fatalf("order = %v, want %v on ties", eids, want)
			}
			continue
		}
		if !reflect.DeepEqual(eids, first) {
			t.Fatalf("run %d order = %v, differs from %v", run, eids, first)
		}
	}
}

func TestBestMatchScenario(t *testing.T) {
	database, cfg, dir := testEnv(t)
	seedScenario(t, database, cfg, dir)

	out, err := BestMatch(database, BestMatchInput{SeekerEID: "aavila"})
	if err != nil {
		t.Fatalf("BestMatch failed: %v", err)
	}
	if out.Partner.EID != "ajones" || out.Partner.Score != 71 {
		t.Errorf("Partner = %s/%d, want ajones/71", out.Partner.EID, out.Partner.Score)
	}
	if out.SeekerEmail != "ana.avila@utexas.edu" {
		t.Errorf("SeekerEmail = %q", out.SeekerEmail)
	}
	if out.PartnerTotal != 3 {
		t.Errorf("PartnerTotal = %d, want 3", out.PartnerTotal)
	}
}

func TestBestMatchNoCandidates(t *testing.T) {
	database, _, _ := testEnv(t)
	if _, err := Add(database, AddInput{EID: "solo", Name: "Solo"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	_, err := BestMatch(database, BestMatchInput{SeekerEID: "solo"})
	if !errors.Is(err, errors.ErrNoMatch) {
		t.Fatalf("err = %v, want NO_MATCH", err)
	}
}

func TestBestMatchUnknownSeeker(t *testing.T) {
	database, _, _ := testEnv(t)

	_, err := BestMatch(database, BestMatchInput{SeekerEID: "ghost"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}
