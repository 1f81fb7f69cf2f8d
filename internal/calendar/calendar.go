// Package calendar plans a week of conversation threads: it drives the
// designer on a paced schedule, spreads threads across subreddits and arc
// types, and filters out anything below the quality floor.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/chad/threadsmith/internal/designer"
	"github.com/chad/threadsmith/internal/emotion"
	"github.com/chad/threadsmith/internal/thread"
)

// PlanError wraps a failure with the planning stage it happened in.
type PlanError struct {
	Stage   string
	Message string
	Err     error
}

func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// Options configures one week of planning.
type Options struct {
	Start      time.Time // first day of the plan; normalized to midnight
	PerDay     int       // threads per day
	Subreddits []string
	ArcTypes   []emotion.ArcType
	Problems   []string // pain points to rotate through
	MinQuality int      // threads scoring below this are dropped
	Verbose    bool
}

// ScheduledThread is one thread pinned to a posting time. Comment and reply
// offsets inside the thread are minutes relative to this time.
type ScheduledThread struct {
	Thread      *thread.ConversationThread `json:"thread"`
	ScheduledAt time.Time                  `json:"scheduled_at"`
}

// WeekPlan is the planner output: threads in posting order plus how many
// were dropped for quality.
type WeekPlan struct {
	Start   time.Time         `json:"start"`
	Threads []ScheduledThread `json:"threads"`
	Dropped int               `json:"dropped"`
}

// Planner generates week plans. Thread design calls are paced at roughly one
// per second so a burst of threads does not hammer the text provider.
type Planner struct {
	designer *designer.Designer
	limiter  *rate.Limiter
	rng      *rand.Rand
}

func NewPlanner(d *designer.Designer, rng *rand.Rand) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Planner{
		designer: d,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		rng:      rng,
	}
}

const (
	planDays      = 7
	postHourFirst = 9  // earliest posting hour, local to the plan's timezone
	postHourLast  = 21 // latest
)

// PlanWeek designs PerDay threads for each of seven days. Subreddits, arc
// types, and problems rotate round-robin so the week stays varied; posting
// times land at a random hour inside the posting window.
func (p *Planner) PlanWeek(ctx context.Context, opts Options) (*WeekPlan, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Date(opts.Start.Year(), opts.Start.Month(), opts.Start.Day(),
		0, 0, 0, 0, opts.Start.Location())
	plan := &WeekPlan{Start: start}
	total := planDays * opts.PerDay
	seq := 0

	for day := 0; day < planDays; day++ {
		dayStart := start.AddDate(0, 0, day)
		if opts.Verbose {
			fmt.Printf("  Planning %s...\n", dayStart.Format("Mon Jan 2"))
		}
		for i := 0; i < opts.PerDay; i++ {
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, &PlanError{Stage: "pacing", Message: "interrupted while waiting", Err: err}
			}

			req := designer.Request{
				Subreddit: opts.Subreddits[seq%len(opts.Subreddits)],
				ArcType:   opts.ArcTypes[seq%len(opts.ArcTypes)],
				Problem:   opts.Problems[seq%len(opts.Problems)],
			}
			seq++

			t, err := p.designer.Design(ctx, req)
			if err != nil {
				return nil, &PlanError{
					Stage:   "design",
					Message: fmt.Sprintf("thread %d of %d (r/%s, %s arc)", seq, total, req.Subreddit, req.ArcType),
					Err:     err,
				}
			}
			if t.Quality != nil && t.Quality.Overall < opts.MinQuality {
				plan.Dropped++
				if opts.Verbose {
					fmt.Printf("    dropped r/%s thread scoring %d (floor %d)\n", req.Subreddit, t.Quality.Overall, opts.MinQuality)
				}
				continue
			}

			plan.Threads = append(plan.Threads, ScheduledThread{
				Thread:      t,
				ScheduledAt: p.pickPostTime(dayStart),
			})
			if opts.Verbose {
				fmt.Printf("    r/%s %s arc, quality %d\n", req.Subreddit, req.ArcType, t.Quality.Overall)
			}
		}
	}

	sort.Slice(plan.Threads, func(i, j int) bool {
		return plan.Threads[i].ScheduledAt.Before(plan.Threads[j].ScheduledAt)
	})
	return plan, nil
}

func validate(opts Options) error {
	switch {
	case opts.PerDay < 1:
		return &PlanError{Stage: "options", Message: fmt.Sprintf("per-day thread count must be at least 1, got %d", opts.PerDay)}
	case len(opts.Subreddits) == 0:
		return &PlanError{Stage: "options", Message: "no subreddits to plan for"}
	case len(opts.ArcTypes) == 0:
		return &PlanError{Stage: "options", Message: "no arc types to plan with"}
	case len(opts.Problems) == 0:
		return &PlanError{Stage: "options", Message: "no problems to write about"}
	}
	return nil
}

// pickPostTime lands inside the posting window at minute granularity.
func (p *Planner) pickPostTime(dayStart time.Time) time.Time {
	windowMinutes := (postHourLast - postHourFirst) * 60
	offset := postHourFirst*60 + p.rng.Intn(windowMinutes)
	return dayStart.Add(time.Duration(offset) * time.Minute)
}

// Save writes the plan as indented JSON.
func Save(plan *WeekPlan, path string) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write plan to %s: %w", path, err)
	}
	return nil
}

// Load reads a plan back and validates every thread in it.
func Load(path string) (*WeekPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan from %s: %w", path, err)
	}
	var plan WeekPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan from %s: %w", path, err)
	}
	for _, st := range plan.Threads {
		if err := st.Thread.Validate(); err != nil {
			return nil, err
		}
	}
	return &plan, nil
}
