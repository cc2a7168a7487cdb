package match

import "github.com/hpungsan/studymatch/internal/student"

// Scoring weights. The total score has no upper bound; every contribution is
// non-negative.
const (
	courseWeight       = 10
	confidenceWeight   = 3
	availabilityWeight = 5
	topicWeight        = 15
	styleBonus         = 12
	workloadCeiling    = 10
)

// Score computes the compatibility score between a seeker and a candidate.
// Pure and deterministic; symmetric in its arguments. Callers never invoke it
// with a record against itself (the Matcher enforces the exclusion).
//
// Contributions:
//  1. shared courses x 10
//  2. confidence gap x 3. NOTE: this adds for dissimilarity, so a larger
//     gap ranks higher. It is the shipped contract; see
//     TestScoreConfidenceGapRaisesScore before "fixing" it.
//  3. shared availability slots x 5
//  4. shared needed topics x 15, only when both students list topics
//  5. flat 12 when both declare a study style and the styles match
//  6. max(0, 10 - work-hour gap)
func Score(seeker, candidate *student.Student) int {
	score := seeker.Courses.Intersect(candidate.Courses).Len() * courseWeight

	score += abs(seeker.Confidence-candidate.Confidence) * confidenceWeight

	score += seeker.Availability.Intersect(candidate.Availability).Len() * availabilityWeight

	if seeker.TopicsNeed.Len() > 0 && candidate.TopicsNeed.Len() > 0 {
		score += seeker.TopicsNeed.Intersect(candidate.TopicsNeed).Len() * topicWeight
	}

	if seeker.StudyStyle != student.StyleNone && candidate.StudyStyle != student.StyleNone &&
		seeker.StudyStyle == candidate.StudyStyle {
		score += styleBonus
	}

	if w := workloadCeiling - abs(seeker.WorkHours-candidate.WorkHours); w > 0 {
		score += w
	}

	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
