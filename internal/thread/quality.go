package thread

// Grade buckets an overall quality score.
type Grade string

const (
	GradeExcellent        Grade = "excellent"
	GradeGood             Grade = "good"
	GradeNeedsImprovement Grade = "needs_improvement"
	GradePoor             Grade = "poor"
)

// GradeFor maps an overall score to its grade band.
func GradeFor(overall int) Grade {
	switch {
	case overall >= 90:
		return GradeExcellent
	case overall >= 70:
		return GradeGood
	case overall >= 50:
		return GradeNeedsImprovement
	default:
		return GradePoor
	}
}

// Severity ranks how damaging an issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Issue is one concrete problem the scorer found.
type Issue struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Dimensions are the five sub-scores that sum to the overall score.
type Dimensions struct {
	SubredditRelevance int `json:"subreddit_relevance"` // max 20
	ProblemSpecificity int `json:"problem_specificity"` // max 20
	Authenticity       int `json:"authenticity"`        // max 25
	ValueFirst         int `json:"value_first"`         // max 20
	Engagement         int `json:"engagement"`          // max 15
}

// Sum returns the dimension total, which equals the overall score.
func (d Dimensions) Sum() int {
	return d.SubredditRelevance + d.ProblemSpecificity + d.Authenticity + d.ValueFirst + d.Engagement
}

// QualityScore is the scorer's verdict on one thread. Computed fresh on each
// call, never partially updated.
type QualityScore struct {
	Overall     int        `json:"overall"`
	Dimensions  Dimensions `json:"dimensions"`
	Grade       Grade      `json:"grade"`
	Issues      []Issue    `json:"issues,omitempty"`
	Strengths   []string   `json:"strengths,omitempty"`
	Suggestions []string   `json:"suggestions,omitempty"` // at most 5, severity-prioritized
}
