package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chad/threadsmith/internal/calendar"
	"github.com/chad/threadsmith/internal/config"
	"github.com/chad/threadsmith/internal/designer"
	"github.com/chad/threadsmith/internal/emotion"
	"github.com/chad/threadsmith/internal/ingest"
	"github.com/chad/threadsmith/internal/multipass"
	"github.com/chad/threadsmith/internal/observability"
	"github.com/chad/threadsmith/internal/persona"
	"github.com/chad/threadsmith/internal/progress"
	"github.com/chad/threadsmith/internal/telemetry"
	"github.com/chad/threadsmith/internal/textgen"
	"github.com/chad/threadsmith/internal/thread"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "threadsmith",
	Short: "Generate authentic-reading Reddit conversation threads for product marketing",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("threadsmith %s\n", Version)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single conversation thread",
	RunE:  runGenerate,
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Plan a week of scheduled conversation threads",
	RunE:  runCalendar,
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the persona and subreddit library",
	RunE:  runPersonas,
}

var (
	flagBrief       string
	flagSubreddit   string
	flagArc         string
	flagProblem     string
	flagOutput      string
	flagBackend     string
	flagModel       string
	flagLibrary     string
	flagSeed        int64
	flagVerbose     bool
	flagTUI         bool
	flagMetricsAddr string
	flagMaxAttempts int
	flagMinQuality  int

	flagSubreddits string
	flagArcs       string
	flagPerDay     int
	flagStart      string
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(personasCmd)

	rootCmd.PersistentFlags().StringVarP(&flagBrief, "brief", "i", "", "Campaign brief (URL, PDF, YAML, or text file)")
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Text backend: anthropic or openai (overrides env)")
	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", "", "Model name or alias (overrides env)")
	rootCmd.PersistentFlags().StringVarP(&flagLibrary, "library", "l", "", "YAML persona/subreddit library overrides")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for reproducible casting and timing (0 = time-based)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable detailed logging")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Prometheus listen address (empty = disabled)")
	rootCmd.PersistentFlags().IntVar(&flagMaxAttempts, "max-attempts", 0, "Generation attempts per piece of content (overrides env)")

	generateCmd.Flags().StringVarP(&flagSubreddit, "subreddit", "s", "devops", "Target subreddit")
	generateCmd.Flags().StringVarP(&flagArc, "arc", "a", "discovery", "Emotional arc type")
	generateCmd.Flags().StringVarP(&flagProblem, "problem", "p", "", "Problem the thread is built around (default: extracted from the brief)")
	generateCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output path for the thread JSON (default: thread_<id>.json)")
	generateCmd.Flags().BoolVarP(&flagTUI, "tui", "t", false, "Interactive setup for generation options")

	calendarCmd.Flags().StringVar(&flagSubreddits, "subreddits", "devops,selfhosted", "Comma-separated subreddits to rotate through")
	calendarCmd.Flags().StringVar(&flagArcs, "arcs", "discovery,problem_solver,comparison", "Comma-separated arc types to rotate through")
	calendarCmd.Flags().IntVar(&flagPerDay, "per-day", 2, "Threads per day")
	calendarCmd.Flags().StringVar(&flagStart, "start", "", "First day of the plan, YYYY-MM-DD (default: tomorrow)")
	calendarCmd.Flags().StringVarP(&flagProblem, "problem", "p", "", "Single problem to use instead of those extracted from the brief")
	calendarCmd.Flags().StringVarP(&flagOutput, "output", "o", "week.json", "Output path for the plan JSON")
	calendarCmd.Flags().IntVar(&flagMinQuality, "min-quality", -1, "Quality floor; lower-scoring threads are dropped (overrides env)")

	personasCmd.Flags().StringVarP(&flagLibrary, "library", "l", "", "YAML persona/subreddit library overrides")
}

func Execute() error {
	return rootCmd.Execute()
}

// runtime bundles everything a command needs after setup.
type runtime struct {
	cfg      *config.Config
	library  *persona.Library
	company  *persona.CompanyContext
	problems []string
	designer *designer.Designer
	rng      *rand.Rand
	shutdown func(context.Context)
}

func setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagLibrary != "" {
		cfg.LibraryPath = flagLibrary
	}
	if flagMetricsAddr != "" {
		cfg.MetricsAddr = flagMetricsAddr
	}
	if flagMaxAttempts > 0 {
		cfg.MaxAttempts = flagMaxAttempts
	}

	logger := observability.InitLogger(flagVerbose)

	shutdown := func(context.Context) {}
	if cfg.Tracing {
		tp, err := observability.InitTracer(ctx, "threadsmith", Version)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		shutdown = func(ctx context.Context) { _ = tp.Shutdown(ctx) }
	}

	var metrics *telemetry.Metrics
	if cfg.MetricsAddr != "" {
		m, reg := telemetry.New()
		metrics = m
		errc := telemetry.Serve(cfg.MetricsAddr, reg)
		go func() {
			if err := <-errc; err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	library := persona.DefaultLibrary()
	if cfg.LibraryPath != "" {
		library, err = persona.LoadLibrary(cfg.LibraryPath)
		if err != nil {
			return nil, err
		}
	}

	if flagBrief == "" {
		return nil, fmt.Errorf("--brief (-i) is required: point it at a product page URL, PDF, YAML, or text file")
	}
	company, problems, err := ingest.LoadCompanyContext(ctx, flagBrief)
	if err != nil {
		return nil, err
	}

	if err := cfg.RequireKey(); err != nil {
		return nil, err
	}
	provider, err := textgen.NewProvider(cfg.Backend, cfg.Model)
	if err != nil {
		return nil, err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ctrl := multipass.NewController(provider, logger, metrics).WithMaxAttempts(cfg.MaxAttempts)
	d := designer.New(library, company, ctrl, logger, metrics, rng)

	return &runtime{
		cfg:      cfg,
		library:  library,
		company:  company,
		problems: problems,
		designer: d,
		rng:      rng,
		shutdown: shutdown,
	}, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if flagTUI {
		if err := runInteractiveSetup(); err != nil {
			return err
		}
	}

	rt, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.shutdown(cmd.Context())

	problem := flagProblem
	if problem == "" {
		if len(rt.problems) == 0 {
			return fmt.Errorf("no --problem given and none could be extracted from the brief")
		}
		problem = rt.problems[0]
	}

	// Progress bar when not in verbose mode
	var renderer *progress.BarRenderer
	if !flagVerbose {
		renderer = progress.NewBarRenderer(os.Stdout)
		defer renderer.Finish()
		rt.designer.WithProgress(renderer.Handle)
	}

	t, err := rt.designer.Design(cmd.Context(), designer.Request{
		Subreddit: flagSubreddit,
		ArcType:   emotion.ArcType(flagArc),
		Problem:   problem,
	})
	if err != nil {
		if renderer != nil {
			renderer.Handle(progress.Event{Stage: progress.StageComplete, Error: err})
		}
		return err
	}

	output := flagOutput
	if output == "" {
		output = fmt.Sprintf("thread_%s.json", strings.ToLower(t.ID))
	}
	if err := thread.Save(t, output); err != nil {
		return err
	}

	if renderer != nil {
		renderer.Handle(progress.Event{
			Stage:      progress.StageComplete,
			Message:    "Thread complete",
			OutputFile: output,
			Quality:    t.Quality.Overall,
			Grade:      string(t.Quality.Grade),
		})
	}
	printQuality(t)
	if flagVerbose {
		fmt.Printf("\n  Thread saved to %s\n", output)
	}
	return nil
}

func runCalendar(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.shutdown(cmd.Context())

	start := time.Now().AddDate(0, 0, 1)
	if flagStart != "" {
		start, err = time.Parse("2006-01-02", flagStart)
		if err != nil {
			return fmt.Errorf("invalid --start %q: want YYYY-MM-DD", flagStart)
		}
	}

	var arcs []emotion.ArcType
	for _, a := range strings.Split(flagArcs, ",") {
		arcs = append(arcs, emotion.ArcType(strings.TrimSpace(a)))
	}

	minQuality := rt.cfg.MinQuality
	if flagMinQuality >= 0 {
		minQuality = flagMinQuality
	}

	problems := rt.problems
	if flagProblem != "" {
		problems = []string{flagProblem}
	}
	if len(problems) == 0 {
		return fmt.Errorf("no problems could be extracted from the brief")
	}

	planner := calendar.NewPlanner(rt.designer, rt.rng)
	plan, err := planner.PlanWeek(cmd.Context(), calendar.Options{
		Start:      start,
		PerDay:     flagPerDay,
		Subreddits: splitTrim(flagSubreddits),
		ArcTypes:   arcs,
		Problems:   problems,
		MinQuality: minQuality,
		Verbose:    true,
	})
	if err != nil {
		return err
	}

	if err := calendar.Save(plan, flagOutput); err != nil {
		return err
	}
	fmt.Printf("\n  Planned %d threads (%d dropped below quality %d)\n", len(plan.Threads), plan.Dropped, minQuality)
	fmt.Printf("  Plan saved to %s\n", flagOutput)
	return nil
}

func runPersonas(cmd *cobra.Command, args []string) error {
	library := persona.DefaultLibrary()
	if flagLibrary != "" {
		var err error
		library, err = persona.LoadLibrary(flagLibrary)
		if err != nil {
			return err
		}
	}

	fmt.Println("\nPersonas:")
	fmt.Printf("  %-14s %-8s %-22s %-9s %s\n", "ID", "NAME", "ROLE", "FORMALITY", "INTERESTS")
	for _, p := range library.Personas {
		fmt.Printf("  %-14s %-8s %-22s %-9.1f %s\n", p.ID, p.Name, p.Role, p.Vocabulary.Formality, strings.Join(p.Interests, ", "))
	}

	fmt.Println("\nSubreddits:")
	fmt.Printf("  %-16s %-9s %-10s %s\n", "NAME", "FORMALITY", "PROMOTION", "TOPICS")
	for _, s := range library.Subreddits {
		fmt.Printf("  %-16s %-9.1f %-10s %s\n", s.Name, s.FormalityLevel, s.PromotionTolerance, strings.Join(s.CommonTopics, ", "))
	}
	fmt.Println()
	return nil
}

func printQuality(t *thread.ConversationThread) {
	if t.Quality == nil {
		return
	}
	q := t.Quality
	fmt.Printf("\n  Quality: %d/100 (%s)\n", q.Overall, q.Grade)
	fmt.Printf("    relevance %d/20  specificity %d/20  authenticity %d/25  value-first %d/20  engagement %d/15\n",
		q.Dimensions.SubredditRelevance, q.Dimensions.ProblemSpecificity, q.Dimensions.Authenticity,
		q.Dimensions.ValueFirst, q.Dimensions.Engagement)
	for _, issue := range q.Issues {
		fmt.Printf("    [%s] %s\n", issue.Severity, issue.Message)
	}
	for _, s := range q.Suggestions {
		fmt.Printf("    - %s\n", s)
	}
}

func splitTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
