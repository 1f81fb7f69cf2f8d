package calendar

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/chad/threadsmith/internal/designer"
	"github.com/chad/threadsmith/internal/emotion"
	"github.com/chad/threadsmith/internal/multipass"
	"github.com/chad/threadsmith/internal/persona"
	"github.com/chad/threadsmith/internal/textgen"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) Complete(_ context.Context, _ string, prompt string, _ textgen.Options) (string, error) {
	if strings.Contains(prompt, "machine-generated Reddit content") {
		return `{"pass": true, "score": 80}`, nil
	}
	return "Title: anyone else fighting this\n\nbeen dealing with this for weeks now, curious what others do", nil
}

func newTestPlanner(t *testing.T, seed int64) *Planner {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	ctrl := multipass.NewController(stubProvider{}, logger, nil)
	company := &persona.CompanyContext{Name: "Chronotask", Product: "Chronotask", Keywords: []string{"cron"}}
	d := designer.New(persona.DefaultLibrary(), company, ctrl, logger, nil, rand.New(rand.NewSource(seed)))
	p := NewPlanner(d, rand.New(rand.NewSource(seed)))
	p.limiter = rate.NewLimiter(rate.Inf, 1) // no pacing in tests
	return p
}

func baseOptions() Options {
	return Options{
		Start:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		PerDay:     1,
		Subreddits: []string{"devops", "selfhosted"},
		ArcTypes:   []emotion.ArcType{emotion.ArcDiscovery, emotion.ArcProblemSolver},
		Problems:   []string{"cron jobs failing silently", "backups racing each other"},
	}
}

func TestPlanWeekShape(t *testing.T) {
	p := newTestPlanner(t, 1)
	plan, err := p.PlanWeek(context.Background(), baseOptions())
	if err != nil {
		t.Fatalf("PlanWeek: %v", err)
	}
	if len(plan.Threads) != planDays {
		t.Fatalf("threads = %d, want %d", len(plan.Threads), planDays)
	}
	if plan.Dropped != 0 {
		t.Errorf("dropped = %d, want 0", plan.Dropped)
	}

	subs := map[string]int{}
	for i, st := range plan.Threads {
		if i > 0 && st.ScheduledAt.Before(plan.Threads[i-1].ScheduledAt) {
			t.Errorf("thread %d scheduled before its predecessor", i)
		}
		h := st.ScheduledAt.Hour()
		if h < postHourFirst || h > postHourLast {
			t.Errorf("thread %d posts at hour %d, outside window", i, h)
		}
		if st.ScheduledAt.Before(plan.Start) || !st.ScheduledAt.Before(plan.Start.AddDate(0, 0, planDays)) {
			t.Errorf("thread %d scheduled at %s, outside the week", i, st.ScheduledAt)
		}
		subs[st.Thread.Subreddit]++
		if err := st.Thread.Validate(); err != nil {
			t.Errorf("thread %d invalid: %v", i, err)
		}
	}
	if len(subs) != 2 {
		t.Errorf("subreddits used = %v, want both in rotation", subs)
	}
}

func TestPlanWeekStartNormalizedToLocalMidnight(t *testing.T) {
	// A zone where midnight does not line up with a UTC day boundary, so
	// epoch-based truncation would land on the wrong instant.
	kathmandu := time.FixedZone("NPT", 5*3600+45*60)
	p := newTestPlanner(t, 4)
	opts := baseOptions()
	opts.Start = time.Date(2026, 3, 2, 15, 30, 0, 0, kathmandu)

	plan, err := p.PlanWeek(context.Background(), opts)
	if err != nil {
		t.Fatalf("PlanWeek: %v", err)
	}
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, kathmandu)
	if !plan.Start.Equal(want) {
		t.Fatalf("plan start = %s, want midnight %s", plan.Start, want)
	}
	for i, st := range plan.Threads {
		if h := st.ScheduledAt.Hour(); h < postHourFirst || h > postHourLast {
			t.Errorf("thread %d posts at hour %d in the plan's zone, outside window", i, h)
		}
	}
}

func TestPlanWeekQualityFloor(t *testing.T) {
	p := newTestPlanner(t, 2)
	opts := baseOptions()
	opts.MinQuality = 101 // nothing can clear this

	plan, err := p.PlanWeek(context.Background(), opts)
	if err != nil {
		t.Fatalf("PlanWeek: %v", err)
	}
	if len(plan.Threads) != 0 {
		t.Errorf("threads = %d, want 0", len(plan.Threads))
	}
	if plan.Dropped != planDays {
		t.Errorf("dropped = %d, want %d", plan.Dropped, planDays)
	}
}

func TestPlanWeekOptionValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero per day", func(o *Options) { o.PerDay = 0 }},
		{"no subreddits", func(o *Options) { o.Subreddits = nil }},
		{"no arc types", func(o *Options) { o.ArcTypes = nil }},
		{"no problems", func(o *Options) { o.Problems = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPlanner(t, 1)
			opts := baseOptions()
			tc.mutate(&opts)
			_, err := p.PlanWeek(context.Background(), opts)
			var planErr *PlanError
			if !errors.As(err, &planErr) {
				t.Fatalf("err = %v, want PlanError", err)
			}
			if planErr.Stage != "options" {
				t.Errorf("stage = %q, want options", planErr.Stage)
			}
		})
	}
}

func TestPlanWeekUnknownArcFailsFast(t *testing.T) {
	p := newTestPlanner(t, 1)
	opts := baseOptions()
	opts.ArcTypes = []emotion.ArcType{"soap_opera"}

	_, err := p.PlanWeek(context.Background(), opts)
	var cfgErr *emotion.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want ConfigurationError", err)
	}
	var planErr *PlanError
	if !errors.As(err, &planErr) || planErr.Stage != "design" {
		t.Errorf("err = %v, want PlanError in the design stage", err)
	}
}

func TestPlanSaveLoad(t *testing.T) {
	p := newTestPlanner(t, 3)
	plan, err := p.PlanWeek(context.Background(), baseOptions())
	if err != nil {
		t.Fatalf("PlanWeek: %v", err)
	}

	path := filepath.Join(t.TempDir(), "week.json")
	if err := Save(plan, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Threads) != len(plan.Threads) {
		t.Fatalf("loaded %d threads, want %d", len(loaded.Threads), len(plan.Threads))
	}
	for i := range plan.Threads {
		if loaded.Threads[i].Thread.ID != plan.Threads[i].Thread.ID {
			t.Errorf("thread %d id changed across save/load", i)
		}
		if !loaded.Threads[i].ScheduledAt.Equal(plan.Threads[i].ScheduledAt) {
			t.Errorf("thread %d schedule changed across save/load", i)
		}
	}
}
