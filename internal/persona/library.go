package persona

// DefaultPersonas are the built-in author profiles. They cover the usual
// spread of a healthy thread: an original poster with a real problem, a
// couple of helpful regulars, a skeptic, and a lurker who only shows up
// when something resonates.
var DefaultPersonas = []Persona{
	{
		ID:    "maya-ops",
		Name:  "Maya",
		Role:  "Original poster. Mid-level engineer drowning in operational toil, posts when she's hit a wall and wants to hear how other people cope.",
		Style: "direct",
		Vocabulary: Vocabulary{
			Phrases:   []string{"honestly", "at this point", "for context", "am I missing something"},
			Avoided:   []string{"leverage", "synergy", "utilize", "streamline"},
			Formality: 0.3,
		},
		Interests: []string{"devops", "automation", "monitoring", "on-call"},
		Emotional: &EmotionalProfile{
			Responses: map[string]EmotionResponse{
				"frustration": {Intensity: 0.9, Recovery: RecoveryModerate},
				"relief":      {Intensity: 0.8, Recovery: RecoverySlow},
				"curiosity":   {Intensity: 0.7, Recovery: RecoveryModerate},
			},
		},
		Humor: &HumorStyle{Type: "self_deprecating", Frequency: FrequencyOccasional, Timing: TimingGood},
	},
	{
		ID:    "dan-graybeard",
		Name:  "Dan",
		Role:  "Veteran commenter. Twenty years of war stories, answers with specifics and a dry aside, allergic to hype.",
		Style: "measured",
		Vocabulary: Vocabulary{
			Phrases:   []string{"in my experience", "YMMV", "the short version is", "back when we ran"},
			Avoided:   []string{"game-changer", "revolutionary", "insane", "literally just"},
			Formality: 0.6,
		},
		Interests: []string{"infrastructure", "databases", "devops", "capacity planning"},
		Emotional: &EmotionalProfile{
			Responses: map[string]EmotionResponse{
				"frustration":  {Intensity: 0.5, Recovery: RecoveryQuick},
				"skepticism":   {Intensity: 0.8, Recovery: RecoverySlow},
				"satisfaction": {Intensity: 0.6, Recovery: RecoveryModerate},
			},
		},
		Humor: &HumorStyle{Type: "dry", Frequency: FrequencyOccasional, Timing: TimingPerfect},
	},
	{
		ID:    "priya-helper",
		Name:  "Priya",
		Role:  "Helpful regular. Shares what actually worked for her team, links her own writeups, asks good follow-up questions.",
		Style: "warm",
		Vocabulary: Vocabulary{
			Phrases:   []string{"we had the same issue", "what worked for us", "happy to share details", "out of curiosity"},
			Avoided:   []string{"obviously", "trivial", "just simply"},
			Formality: 0.5,
		},
		Interests: []string{"automation", "tooling", "team process", "documentation"},
		Emotional: &EmotionalProfile{
			Responses: map[string]EmotionResponse{
				"curiosity":         {Intensity: 0.9, Recovery: RecoveryModerate},
				"cautious_optimism": {Intensity: 0.8, Recovery: RecoverySlow},
				"excitement":        {Intensity: 0.7, Recovery: RecoveryQuick},
			},
		},
		Humor: &HumorStyle{Type: "observational", Frequency: FrequencyRare, Timing: TimingGood},
	},
	{
		ID:    "theo-skeptic",
		Name:  "Theo",
		Role:  "Resident skeptic. Assumes every recommendation is an ad until proven otherwise, demands numbers, concedes gracefully when shown them.",
		Style: "blunt",
		Vocabulary: Vocabulary{
			Phrases:   []string{"citation needed", "what's the catch", "sounds like marketing", "ok that's actually fair"},
			Avoided:   []string{"amazing", "love this", "incredible"},
			Formality: 0.4,
		},
		Interests: []string{"security", "privacy", "open source", "self-hosting"},
		Emotional: &EmotionalProfile{
			Responses: map[string]EmotionResponse{
				"skepticism":   {Intensity: 0.95, Recovery: RecoverySlow},
				"frustration":  {Intensity: 0.7, Recovery: RecoverySlow},
				"satisfaction": {Intensity: 0.4, Recovery: RecoveryQuick},
			},
		},
		Humor: &HumorStyle{Type: "dry", Frequency: FrequencyRare, Timing: TimingGood},
	},
	{
		ID:    "sam-lurker",
		Name:  "Sam",
		Role:  "Long-time lurker. First comment in months, posts only because the thread hit close to home, brief and a little awkward.",
		Style: "casual",
		Vocabulary: Vocabulary{
			Phrases:   []string{"longtime lurker", "this thread is timely", "no idea if this helps but"},
			Avoided:   []string{"per my previous comment", "as mentioned"},
			Formality: 0.2,
		},
		Interests: []string{"side projects", "automation", "productivity"},
		Emotional: &EmotionalProfile{
			Responses: map[string]EmotionResponse{
				"relief":      {Intensity: 0.8, Recovery: RecoverySlow},
				"curiosity":   {Intensity: 0.6, Recovery: RecoveryModerate},
				"frustration": {Intensity: 0.6, Recovery: RecoveryQuick},
			},
		},
		Humor: &HumorStyle{Type: "self_deprecating", Frequency: FrequencyFrequent, Timing: TimingGood},
	},
	{
		ID:    "ana-lead",
		Name:  "Ana",
		Role:  "Engineering lead. Thinks in tradeoffs and budgets, writes longer comments with structure, occasionally admits her own past mistakes.",
		Style: "considered",
		Vocabulary: Vocabulary{
			Phrases:   []string{"the tradeoff we accepted", "in hindsight", "depends on your scale", "we burned a quarter on"},
			Avoided:   []string{"lol", "tbh", "ngl"},
			Formality: 0.75,
		},
		Interests: []string{"architecture", "team process", "capacity planning", "vendor evaluation"},
		Emotional: &EmotionalProfile{
			Responses: map[string]EmotionResponse{
				"cautious_optimism": {Intensity: 0.7, Recovery: RecoveryModerate},
				"disappointment":    {Intensity: 0.6, Recovery: RecoveryModerate},
				"satisfaction":      {Intensity: 0.7, Recovery: RecoverySlow},
			},
		},
		Humor: &HumorStyle{Type: "observational", Frequency: FrequencyRare, Timing: TimingGood},
	},
}

// DefaultSubreddits are the built-in community profiles.
var DefaultSubreddits = []SubredditContext{
	{
		Name:               "devops",
		FormalityLevel:     0.5,
		Culture:            "practitioners venting and trading runbooks",
		AcceptedLanguage:   []string{"toil", "on-call", "postmortem", "runbook"},
		AvoidedLanguage:    []string{"growth hacking", "B2B", "webinar"},
		ModStrictness:      "standard",
		PromotionTolerance: ToleranceLow,
		CommonTopics:       []string{"monitoring", "ci/cd", "incident response", "automation", "kubernetes"},
	},
	{
		Name:               "selfhosted",
		FormalityLevel:     0.3,
		Culture:            "hobbyists who distrust SaaS and love their homelabs",
		AcceptedLanguage:   []string{"homelab", "docker compose", "behind a reverse proxy"},
		AvoidedLanguage:    []string{"enterprise-grade", "contact sales"},
		ModStrictness:      "relaxed",
		PromotionTolerance: ToleranceMedium,
		CommonTopics:       []string{"self-hosting", "docker", "backups", "home automation", "privacy"},
	},
	{
		Name:               "sysadmin",
		FormalityLevel:     0.6,
		Culture:            "tired professionals with ticket queues and strong opinions",
		AcceptedLanguage:   []string{"ticket", "change window", "the business"},
		AvoidedLanguage:    []string{"rockstar", "ninja", "disrupt"},
		ModStrictness:      "strict",
		PromotionTolerance: ToleranceNone,
		CommonTopics:       []string{"active directory", "patching", "backups", "monitoring", "vendor management"},
	},
	{
		Name:               "smallbusiness",
		FormalityLevel:     0.4,
		Culture:            "owners comparing notes on what's worth paying for",
		AcceptedLanguage:   []string{"cash flow", "bookkeeping", "my accountant said"},
		AvoidedLanguage:    []string{"synergy", "at scale"},
		ModStrictness:      "standard",
		PromotionTolerance: ToleranceMedium,
		CommonTopics:       []string{"accounting", "invoicing", "hiring", "marketing", "software costs"},
	},
	{
		Name:               "productivity",
		FormalityLevel:     0.35,
		Culture:            "system-tinkerers who rebuild their workflow monthly",
		AcceptedLanguage:   []string{"workflow", "friction", "second brain"},
		AvoidedLanguage:    []string{"10x", "grindset"},
		ModStrictness:      "relaxed",
		PromotionTolerance: ToleranceHigh,
		CommonTopics:       []string{"note taking", "task management", "habits", "automation", "focus"},
	},
	{
		Name:               "ExperiencedDevs",
		FormalityLevel:     0.8,
		Culture:            "senior engineers, long-form answers, low tolerance for fluff",
		AcceptedLanguage:   []string{"tradeoff", "tech debt", "org design"},
		AvoidedLanguage:    []string{"bro", "literally dying", "slaps"},
		ModStrictness:      "strict",
		PromotionTolerance: ToleranceNone,
		CommonTopics:       []string{"architecture", "career", "team process", "code review", "vendor evaluation"},
	},
}

// FindPersona returns the built-in persona with the given id.
func FindPersona(personas []Persona, id string) (Persona, bool) {
	for _, p := range personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// FindSubreddit returns the subreddit context with the given name.
func FindSubreddit(subs []SubredditContext, name string) (SubredditContext, bool) {
	for _, s := range subs {
		if s.Name == name {
			return s, true
		}
	}
	return SubredditContext{}, false
}
