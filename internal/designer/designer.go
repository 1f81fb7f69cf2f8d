// Package designer assembles full conversation threads: it casts personas,
// runs the emotional engine, drives the multi-pass generator for every post,
// comment, and reply, and scores the result.
package designer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/chad/threadsmith/internal/compose"
	"github.com/chad/threadsmith/internal/emotion"
	"github.com/chad/threadsmith/internal/multipass"
	"github.com/chad/threadsmith/internal/persona"
	"github.com/chad/threadsmith/internal/progress"
	"github.com/chad/threadsmith/internal/score"
	"github.com/chad/threadsmith/internal/telemetry"
	"github.com/chad/threadsmith/internal/thread"
)

// Request asks for one thread.
type Request struct {
	Subreddit string
	ArcType   emotion.ArcType
	Problem   string // the user pain the thread is built around
}

// Designer turns requests into scored conversation threads. All randomness
// flows through the injected rand source, so a fixed seed gives a fixed
// casting and timing plan (generated text still varies with the provider).
type Designer struct {
	library    *persona.Library
	company    *persona.CompanyContext
	ctrl       *multipass.Controller
	tracker    *persona.UsageTracker
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	rng        *rand.Rand
	entropy    *ulid.MonotonicEntropy
	onProgress progress.Callback
}

func New(lib *persona.Library, company *persona.CompanyContext, ctrl *multipass.Controller, logger *slog.Logger, metrics *telemetry.Metrics, rng *rand.Rand) *Designer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Designer{
		library:    lib,
		company:    company,
		ctrl:       ctrl,
		tracker:    persona.NewUsageTracker(),
		logger:     logger,
		metrics:    metrics,
		rng:        rng,
		entropy:    ulid.Monotonic(rng, 0),
		onProgress: progress.NopCallback,
	}
}

// WithProgress installs a progress callback. Events arrive from the
// orchestration goroutine only, never concurrently.
func (d *Designer) WithProgress(cb progress.Callback) *Designer {
	if cb != nil {
		d.onProgress = cb
	}
	return d
}

// Tracker exposes the usage tracker so callers planning many threads can
// inspect persona rotation.
func (d *Designer) Tracker() *persona.UsageTracker { return d.tracker }

// cast is the set of personas acting in one thread: the original poster plus
// one commenter per comment slot.
type cast struct {
	op         persona.Persona
	commenters []persona.Persona
}

// commentPlan is everything about one comment slot decided up front, before
// any generation runs concurrently.
type commentPlan struct {
	id           string
	p            persona.Persona
	slot         CommentSlot
	state        emotion.State
	frustration  float64
	opps         []emotion.Opportunity
	allowMention bool
	offset       int
}

// Design produces one complete, validated, scored conversation thread. The
// post is generated first, then all top-level comments concurrently, then the
// OP's replies concurrently once the comments exist.
func (d *Designer) Design(ctx context.Context, req Request) (*thread.ConversationThread, error) {
	started := time.Now()

	tpl, err := TemplateFor(req.ArcType)
	if err != nil {
		return nil, err
	}
	sub, ok := persona.FindSubreddit(d.library.Subreddits, req.Subreddit)
	if !ok {
		return nil, fmt.Errorf("unknown subreddit %q", req.Subreddit)
	}

	d.onProgress(progress.NewEvent(progress.StageCast, "Casting personas...", 0.05, started))
	c, err := d.selectCast(tpl, sub)
	if err != nil {
		return nil, err
	}

	arc, err := emotion.GenerateArc(c.op, req.ArcType, req.Problem)
	if err != nil {
		return nil, err
	}
	curve, err := emotion.GenerateFrustrationCurve(c.op, req.Problem, req.ArcType)
	if err != nil {
		return nil, err
	}

	threadID := d.newID()
	d.onProgress(progress.NewEvent(progress.StagePost, "Writing the post...", 0.15, started))
	post := d.generatePost(ctx, tpl, c.op, sub, req.Problem, arc, curve)

	plans := d.planComments(tpl, c, sub, arc, curve)
	d.onProgress(progress.NewEvent(progress.StageComments,
		fmt.Sprintf("Writing %d comments...", len(plans)), 0.40, started))
	comments, err := d.generateComments(ctx, plans, sub, req.Problem, post)
	if err != nil {
		return nil, err
	}

	d.onProgress(progress.NewEvent(progress.StageReplies,
		fmt.Sprintf("Writing %d replies...", len(tpl.Replies)), 0.75, started))
	replies, err := d.generateReplies(ctx, tpl, c, sub, req.Problem, arc, curve, post, comments, plans)
	if err != nil {
		return nil, err
	}

	t := &thread.ConversationThread{
		ID:               threadID,
		Subreddit:        sub.Name,
		ArcType:          string(req.ArcType),
		Post:             post,
		TopLevelComments: comments,
		Replies:          replies,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	d.recordUsage(c, sub)

	d.onProgress(progress.NewEvent(progress.StageScore, "Scoring...", 0.92, started))
	quality := score.Predict(t, sub, d.castPersonas(c), d.company)
	t.Quality = &quality
	d.metrics.ObserveQualityScore(quality.Overall)

	d.logger.Info("thread designed",
		"thread_id", t.ID,
		"subreddit", t.Subreddit,
		"arc", t.ArcType,
		"comments", len(t.TopLevelComments),
		"replies", len(t.Replies),
		"quality", quality.Overall,
		"grade", quality.Grade,
	)
	return t, nil
}

// selectCast picks the original poster via the usage tracker, then fills the
// comment slots from the rest of the library: shuffled for variety, then
// stably sorted by subreddit fit so shuffle only breaks ties.
func (d *Designer) selectCast(tpl ArcTemplate, sub persona.SubredditContext) (cast, error) {
	if len(d.library.Personas) < 2 {
		return cast{}, fmt.Errorf("persona library needs at least 2 personas, have %d", len(d.library.Personas))
	}
	op := d.tracker.PickLeastUsed(d.library.Personas, sub)

	pool := make([]persona.Persona, 0, len(d.library.Personas)-1)
	for _, p := range d.library.Personas {
		if p.ID != op.ID {
			pool = append(pool, p)
		}
	}
	d.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	sort.SliceStable(pool, func(i, j int) bool {
		return persona.ScoreForSubreddit(pool[i], sub) > persona.ScoreForSubreddit(pool[j], sub)
	})

	commenters := make([]persona.Persona, len(tpl.Comments))
	for i := range tpl.Comments {
		commenters[i] = pool[i%len(pool)]
	}
	return cast{op: op, commenters: commenters}, nil
}

func (d *Designer) generatePost(ctx context.Context, tpl ArcTemplate, op persona.Persona, sub persona.SubredditContext, problem string, arc *emotion.Arc, curve *emotion.FrustrationCurve) thread.Post {
	res := d.ctrl.Generate(ctx, compose.Request{
		Type:        compose.ContentPost,
		Persona:     op,
		Subreddit:   sub,
		Company:     d.company,
		Problem:     problem,
		State:       arc.Start,
		Frustration: emotion.FrustrationAt(curve, 0),
		Purpose:     tpl.PostPurpose,
		Tone:        tpl.PostTone,
	})
	if res.Metadata.UsedFallback {
		d.logger.Warn("post generation fell back", "persona", op.ID, "subreddit", sub.Name)
	}
	title, body := splitPost(res.FinalContent)
	return thread.Post{Title: title, Body: body, PersonaID: op.ID}
}

// planComments fixes every per-slot decision (persona, emotional state,
// timing, opportunities, ids) before the concurrent generation starts, since
// neither the rand source nor the ulid entropy is safe for concurrent use.
func (d *Designer) planComments(tpl ArcTemplate, c cast, sub persona.SubredditContext, arc *emotion.Arc, curve *emotion.FrustrationCurve) []commentPlan {
	plans := make([]commentPlan, len(tpl.Comments))
	for i, slot := range tpl.Comments {
		p := c.commenters[i]
		state := stateAt(arc, i)
		offset := d.pickOffset(slot.TimingMin, slot.TimingMax)

		var opps []emotion.Opportunity
		for _, o := range emotion.IdentifyHumorOpportunities(arc, p, sub) {
			if o.Position == i {
				opps = append(opps, o)
			}
		}
		for _, o := range emotion.IdentifyVulnerabilityOpportunities(arc, p, sub) {
			if o.Position == i {
				opps = append(opps, o)
			}
		}

		// The first top-level comment never mentions the product, no matter
		// what the template or the subreddit would allow.
		allow := slot.ProductMention && i > 0 && sub.PromotionTolerance != persona.ToleranceNone

		plans[i] = commentPlan{
			id:           d.newID(),
			p:            p,
			slot:         slot,
			state:        state,
			frustration:  emotion.FrustrationAt(curve, offset),
			opps:         opps,
			allowMention: allow,
			offset:       offset,
		}
	}
	return plans
}

func (d *Designer) generateComments(ctx context.Context, plans []commentPlan, sub persona.SubredditContext, problem string, post thread.Post) ([]thread.Comment, error) {
	comments := make([]thread.Comment, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	for i, plan := range plans {
		g.Go(func() error {
			res := d.ctrl.Generate(gctx, compose.Request{
				Type:                compose.ContentComment,
				Persona:             plan.p,
				Subreddit:           sub,
				Company:             d.company,
				Problem:             problem,
				State:               plan.state,
				Frustration:         plan.frustration,
				Opportunities:       plan.opps,
				Purpose:             plan.slot.Purpose,
				Tone:                plan.slot.Tone,
				AllowProductMention: plan.allowMention,
				ThreadContext:       postContext(post),
			})
			body := res.FinalContent
			mentioned := plan.allowMention && d.containsProduct(body)
			if !plan.allowMention && d.containsProduct(body) {
				// Generation leaked a product name where none is allowed.
				// Scrub rather than ship: the structural invariant on the
				// first comment is absolute.
				d.logger.Warn("scrubbing leaked product mention", "comment", plan.id, "persona", plan.p.ID)
				body = multipass.Fallback(compose.ContentComment)
			}
			comments[i] = thread.Comment{
				ID:             plan.id,
				PersonaID:      plan.p.ID,
				Body:           body,
				ProductMention: mentioned,
				OffsetMinutes:  plan.offset,
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate comments: %w", err)
	}
	return comments, nil
}

func (d *Designer) generateReplies(ctx context.Context, tpl ArcTemplate, c cast, sub persona.SubredditContext, problem string, arc *emotion.Arc, curve *emotion.FrustrationCurve, post thread.Post, comments []thread.Comment, plans []commentPlan) ([]thread.Reply, error) {
	type replyPlan struct {
		id          string
		slot        ReplySlot
		parent      thread.Comment
		p           persona.Persona
		state       emotion.State
		frustration float64
		offset      int
	}

	rplans := make([]replyPlan, 0, len(tpl.Replies))
	for _, slot := range tpl.Replies {
		if slot.TargetComment >= len(comments) {
			continue
		}
		parent := comments[slot.TargetComment]
		p := c.op
		if !slot.FromOP {
			p = c.commenters[slot.TargetComment]
		}
		offset := plans[slot.TargetComment].offset + d.pickOffset(slot.TimingMin, slot.TimingMax)
		rplans = append(rplans, replyPlan{
			id:          d.newID(),
			slot:        slot,
			parent:      parent,
			p:           p,
			state:       stateAt(arc, slot.TargetComment),
			frustration: emotion.FrustrationAt(curve, offset),
			offset:      offset,
		})
	}

	replies := make([]thread.Reply, len(rplans))
	g, gctx := errgroup.WithContext(ctx)
	for i, plan := range rplans {
		g.Go(func() error {
			res := d.ctrl.Generate(gctx, compose.Request{
				Type:          compose.ContentReply,
				Persona:       plan.p,
				Subreddit:     sub,
				Company:       d.company,
				Problem:       problem,
				State:         plan.state,
				Frustration:   plan.frustration,
				Purpose:       plan.slot.Purpose,
				Tone:          plan.slot.Tone,
				ThreadContext: postContext(post),
				ParentComment: plan.parent.Body,
			})
			body := res.FinalContent
			if d.containsProduct(body) {
				d.logger.Warn("scrubbing leaked product mention", "reply", plan.id, "persona", plan.p.ID)
				body = multipass.Fallback(compose.ContentReply)
			}
			replies[i] = thread.Reply{
				ID:              plan.id,
				ParentCommentID: plan.parent.ID,
				PersonaID:       plan.p.ID,
				Body:            body,
				OffsetMinutes:   plan.offset,
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate replies: %w", err)
	}
	return replies, nil
}

func (d *Designer) recordUsage(c cast, sub persona.SubredditContext) {
	d.tracker.Record(c.op.ID, sub.Name)
	seen := map[string]bool{c.op.ID: true}
	for _, p := range c.commenters {
		if !seen[p.ID] {
			seen[p.ID] = true
			d.tracker.Record(p.ID, sub.Name)
		}
	}
}

func (d *Designer) castPersonas(c cast) []persona.Persona {
	out := make([]persona.Persona, 0, 1+len(c.commenters))
	out = append(out, c.op)
	seen := map[string]bool{c.op.ID: true}
	for _, p := range c.commenters {
		if !seen[p.ID] {
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}

func (d *Designer) containsProduct(text string) bool {
	if d.company == nil {
		return false
	}
	low := strings.ToLower(text)
	for _, name := range []string{d.company.Product, d.company.Name} {
		if name != "" && strings.Contains(low, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

func (d *Designer) pickOffset(min, max int) int {
	if max <= min {
		return min
	}
	return min + d.rng.Intn(max-min+1)
}

func (d *Designer) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), d.entropy).String()
}

// stateAt returns the arc state for a comment slot, clamping past the end so
// templates with more slots than stages reuse the final state.
func stateAt(arc *emotion.Arc, i int) emotion.State {
	if len(arc.Progression) == 0 {
		return arc.Start
	}
	if i >= len(arc.Progression) {
		return arc.Progression[len(arc.Progression)-1]
	}
	return arc.Progression[i]
}

func postContext(post thread.Post) string {
	return "POST TITLE: " + post.Title + "\n\nPOST BODY:\n" + post.Body
}

// splitPost carves the generated text into a title and body: first non-empty
// line is the title, everything after is the body. Markdown headers and
// "Title:" prefixes the model sometimes adds are stripped.
func splitPost(content string) (string, string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ""
	}
	lines := strings.SplitN(content, "\n", 2)
	title := strings.TrimSpace(lines[0])
	title = strings.TrimPrefix(title, "Title:")
	title = strings.TrimLeft(title, "# ")
	title = strings.Trim(strings.TrimSpace(title), `"`)
	body := ""
	if len(lines) > 1 {
		body = strings.TrimSpace(lines[1])
	}
	return title, body
}
