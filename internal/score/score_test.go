package score

import (
	"reflect"
	"testing"

	"github.com/chad/threadsmith/internal/persona"
	"github.com/chad/threadsmith/internal/thread"
)

func scoringSubreddit() persona.SubredditContext {
	return persona.SubredditContext{
		Name:               "devops",
		FormalityLevel:     0.4,
		PromotionTolerance: persona.ToleranceLow,
		CommonTopics:       []string{"monitoring", "automation", "incident response"},
	}
}

func scoringPersonas() []persona.Persona {
	return []persona.Persona{
		{ID: "op", Vocabulary: persona.Vocabulary{Formality: 0.35}},
		{ID: "helper", Vocabulary: persona.Vocabulary{Formality: 0.5}},
		{ID: "vet", Vocabulary: persona.Vocabulary{Formality: 0.6}},
	}
}

func scoringCompany() *persona.CompanyContext {
	return &persona.CompanyContext{
		Name:     "Chronotask",
		Product:  "Chronotask scheduler",
		Keywords: []string{"cron", "job scheduling"},
	}
}

// goodThread builds a thread designed to score well without being perfect.
func goodThread() *thread.ConversationThread {
	return &thread.ConversationThread{
		ID:        "t1",
		Subreddit: "devops",
		ArcType:   "discovery",
		Post: thread.Post{
			Title:     "Spent 3 hours every week babysitting cron jobs, am I doing this wrong?",
			Body:      "I'm on a team of 4 and our monitoring setup pages me about twice a week for jobs that silently died. Honestly it's frustrating and I've burned about 3 hours each week restarting things by hand... is there a saner approach to automation here?",
			PersonaID: "op",
		},
		TopLevelComments: []thread.Comment{
			{ID: "c1", PersonaID: "vet", Body: "yeah we had the same pain with monitoring, what fixed it for us wasn't a tool, it was alerting on missed completions instead of failures. took an afternoon to set up"},
			{ID: "c2", PersonaID: "helper", Body: "we moved our job scheduling to chronotask last quarter, the missed-run alerts alone saved us... it's not magic but it cut my manual restarts to basically zero", ProductMention: true},
			{ID: "c3", PersonaID: "vet", Body: "tbh the real fix is fewer jobs. we deleted half of ours during an audit and nobody noticed"},
		},
		Replies: []thread.Reply{
			{ID: "r1", ParentCommentID: "c1", PersonaID: "op", Body: "huh, alerting on missed completions is kinda obvious in hindsight. gonna try that this week"},
			{ID: "r2", ParentCommentID: "c2", PersonaID: "op", Body: "never heard of it, does it handle overlapping runs? that's what bites us most"},
		},
	}
}

func TestPredict_Deterministic(t *testing.T) {
	t.Parallel()

	th := goodThread()
	a := Predict(th, scoringSubreddit(), scoringPersonas(), scoringCompany())
	b := Predict(th, scoringSubreddit(), scoringPersonas(), scoringCompany())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two identical calls produced different results:\n%+v\n%+v", a, b)
	}
}

func TestPredict_OverallEqualsDimensionSum(t *testing.T) {
	t.Parallel()

	threads := []*thread.ConversationThread{
		goodThread(),
		{}, // fully degenerate: no post, no comments
		{Post: thread.Post{Title: "looking for a good tool, any recommendations?"}},
	}
	for i, th := range threads {
		qs := Predict(th, scoringSubreddit(), scoringPersonas(), scoringCompany())
		if qs.Overall != qs.Dimensions.Sum() {
			t.Errorf("thread %d: overall %d != dimension sum %d", i, qs.Overall, qs.Dimensions.Sum())
		}
	}
}

func TestGradeFor_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  thread.Grade
	}{
		{95, thread.GradeExcellent},
		{90, thread.GradeExcellent},
		{89, thread.GradeGood},
		{70, thread.GradeGood},
		{69, thread.GradeNeedsImprovement},
		{50, thread.GradeNeedsImprovement},
		{49, thread.GradePoor},
		{0, thread.GradePoor},
	}
	for _, tt := range tests {
		if got := thread.GradeFor(tt.score); got != tt.want {
			t.Errorf("GradeFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestPredict_GoodThreadScoresWell(t *testing.T) {
	t.Parallel()

	qs := Predict(goodThread(), scoringSubreddit(), scoringPersonas(), scoringCompany())
	if qs.Overall < 70 {
		t.Fatalf("overall = %d (%+v), want >= 70", qs.Overall, qs.Dimensions)
	}
	for _, issue := range qs.Issues {
		if issue.Severity == thread.SeverityCritical {
			t.Errorf("good thread raised a critical issue: %+v", issue)
		}
	}
}

func TestPredict_ToolFishingPost(t *testing.T) {
	t.Parallel()

	th := goodThread()
	th.Post.Title = "looking for a good tool, any recommendations?"
	th.Post.Body = "looking for a good tool, any recommendations?"

	qs := Predict(th, scoringSubreddit(), scoringPersonas(), scoringCompany())
	if qs.Dimensions.ProblemSpecificity >= 15 {
		t.Errorf("specificity = %d, want < 15 for a tool-fishing post", qs.Dimensions.ProblemSpecificity)
	}
	if !hasIssue(qs.Issues, "tool_fishing") {
		t.Errorf("missing tool_fishing issue; got %+v", qs.Issues)
	}
}

func TestPredict_ZeroToleranceSubredditZeroesRelevance(t *testing.T) {
	t.Parallel()

	sub := scoringSubreddit()
	sub.PromotionTolerance = persona.ToleranceNone

	qs := Predict(goodThread(), sub, scoringPersonas(), scoringCompany())
	if qs.Dimensions.SubredditRelevance != 0 {
		t.Errorf("relevance = %d, want 0 in a zero-tolerance subreddit", qs.Dimensions.SubredditRelevance)
	}
	if !hasIssue(qs.Issues, "promotion_in_no_promo_sub") {
		t.Errorf("missing promotion_in_no_promo_sub issue; got %+v", qs.Issues)
	}
}

func TestPredict_FirstCommentProductMentionIsCritical(t *testing.T) {
	t.Parallel()

	th := goodThread()
	th.TopLevelComments[0].Body = "just use chronotask, problem solved"
	th.TopLevelComments[0].ProductMention = true

	qs := Predict(th, scoringSubreddit(), scoringPersonas(), scoringCompany())
	if !hasIssue(qs.Issues, "first_comment_promo") {
		t.Fatalf("missing first_comment_promo issue; got %+v", qs.Issues)
	}
	for _, issue := range qs.Issues {
		if issue.Type == "first_comment_promo" && issue.Severity != thread.SeverityCritical {
			t.Errorf("first_comment_promo severity = %s, want critical", issue.Severity)
		}
	}
}

func TestPredict_SuperlativeProductCommentIsCritical(t *testing.T) {
	t.Parallel()

	th := goodThread()
	th.TopLevelComments[1].Body = "chronotask is hands down the best, you need it"

	qs := Predict(th, scoringSubreddit(), scoringPersonas(), scoringCompany())
	if !hasIssue(qs.Issues, "promotional_language") {
		t.Fatalf("missing promotional_language issue; got %+v", qs.Issues)
	}
}

func TestPredict_AIPatternsDragAuthenticityDown(t *testing.T) {
	t.Parallel()

	th := goodThread()
	clean := Predict(th, scoringSubreddit(), scoringPersonas(), scoringCompany())

	th.TopLevelComments[0].Body = "Furthermore, it is worth noting that you should leverage a robust solution to streamline your workflow. 1. Install it. 2. Configure it. I hope this helps!"
	dirty := Predict(th, scoringSubreddit(), scoringPersonas(), scoringCompany())

	if dirty.Dimensions.Authenticity >= clean.Dimensions.Authenticity {
		t.Errorf("authenticity did not drop: clean=%d dirty=%d", clean.Dimensions.Authenticity, dirty.Dimensions.Authenticity)
	}
	if !hasIssue(dirty.Issues, "ai_patterns") {
		t.Errorf("missing ai_patterns issue; got %+v", dirty.Issues)
	}
}

func TestPredict_SuggestionsCappedAndPrioritized(t *testing.T) {
	t.Parallel()

	// Stack up as many issue types as possible.
	th := &thread.ConversationThread{
		ArcType: "discovery",
		Post: thread.Post{
			Title:     "looking for a good tool, any recommendations?",
			Body:      "Furthermore, I am looking for a good tool. It is not easy. Do not judge.",
			PersonaID: "op",
		},
		TopLevelComments: []thread.Comment{
			{ID: "c1", PersonaID: "a", Body: "chronotask is the best, you need it", ProductMention: true},
			{ID: "c2", PersonaID: "a", Body: "chronotask is the best, you need it", ProductMention: true},
		},
	}
	qs := Predict(th, scoringSubreddit(), scoringPersonas(), scoringCompany())

	if len(qs.Suggestions) > 5 {
		t.Fatalf("got %d suggestions, cap is 5", len(qs.Suggestions))
	}
	if len(qs.Suggestions) == 0 {
		t.Fatal("expected suggestions for a thread this bad")
	}
	// First suggestion must come from a critical issue.
	var firstCritical string
	for _, issue := range qs.Issues {
		if issue.Severity == thread.SeverityCritical {
			firstCritical = issue.Message
			break
		}
	}
	if firstCritical != "" && qs.Suggestions[0] != firstCritical {
		t.Errorf("suggestions[0] = %q, want first critical issue %q", qs.Suggestions[0], firstCritical)
	}
}

func TestPredict_TotalOnDegenerateThread(t *testing.T) {
	t.Parallel()

	qs := Predict(&thread.ConversationThread{}, persona.SubredditContext{}, nil, nil)
	if qs.Overall != qs.Dimensions.Sum() {
		t.Errorf("degenerate thread: overall %d != sum %d", qs.Overall, qs.Dimensions.Sum())
	}
	if qs.Grade != thread.GradePoor && qs.Grade != thread.GradeNeedsImprovement {
		t.Errorf("degenerate thread graded %s", qs.Grade)
	}
}

func TestScoreForSubreddit_FormalityRanking(t *testing.T) {
	t.Parallel()

	sub := persona.SubredditContext{Name: "casualsub", FormalityLevel: 0.3, CommonTopics: []string{"automation"}}
	casual := persona.Persona{ID: "a", Interests: []string{"automation"}, Vocabulary: persona.Vocabulary{Formality: 0.2}}
	formal := persona.Persona{ID: "b", Interests: []string{"automation"}, Vocabulary: persona.Vocabulary{Formality: 0.9}}

	if persona.ScoreForSubreddit(casual, sub) <= persona.ScoreForSubreddit(formal, sub) {
		t.Fatalf("0.2-formality persona should rank strictly higher than 0.9 in a 0.3-formality subreddit")
	}
}

func hasIssue(issues []thread.Issue, issueType string) bool {
	for _, i := range issues {
		if i.Type == issueType {
			return true
		}
	}
	return false
}
