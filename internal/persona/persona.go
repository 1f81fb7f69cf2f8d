package persona

// RecoverySpeed describes how quickly a persona's emotional intensity decays.
type RecoverySpeed string

const (
	RecoveryQuick    RecoverySpeed = "quick"
	RecoveryModerate RecoverySpeed = "moderate"
	RecoverySlow     RecoverySpeed = "slow"
)

// HumorTiming rates how well a persona lands a joke.
type HumorTiming string

const (
	TimingPerfect       HumorTiming = "perfect"
	TimingGood          HumorTiming = "good"
	TimingInappropriate HumorTiming = "inappropriate"
)

// HumorFrequency caps how often a persona reaches for humor in one thread.
type HumorFrequency string

const (
	FrequencyRare       HumorFrequency = "rare"
	FrequencyOccasional HumorFrequency = "occasional"
	FrequencyFrequent   HumorFrequency = "frequent"
)

// PromotionTolerance is a subreddit's attitude toward product mentions.
type PromotionTolerance string

const (
	ToleranceNone   PromotionTolerance = "none"
	ToleranceLow    PromotionTolerance = "low"
	ToleranceMedium PromotionTolerance = "medium"
	ToleranceHigh   PromotionTolerance = "high"
)

// Vocabulary is a persona's lexical fingerprint.
type Vocabulary struct {
	Phrases   []string `yaml:"phrases" json:"phrases"`     // characteristic phrases, sprinkled into prompts
	Avoided   []string `yaml:"avoided" json:"avoided"`     // words this persona would never use
	Formality float64  `yaml:"formality" json:"formality"` // 0 = shitposter, 1 = technical writer
}

// EmotionResponse is how strongly a persona feels one emotion and how fast it fades.
type EmotionResponse struct {
	Intensity float64       `yaml:"intensity" json:"intensity"`
	Recovery  RecoverySpeed `yaml:"recovery" json:"recovery"`
}

// EmotionalProfile maps emotion names to a persona's response parameters.
// Emotions without an entry fall back to a neutral response.
type EmotionalProfile struct {
	Responses map[string]EmotionResponse `yaml:"responses" json:"responses"`
}

// Response returns the persona's response for the named emotion, defaulting to
// intensity 1.0 with moderate recovery when the profile has no entry.
func (ep *EmotionalProfile) Response(emotion string) EmotionResponse {
	if ep == nil || ep.Responses == nil {
		return EmotionResponse{Intensity: 1.0, Recovery: RecoveryModerate}
	}
	r, ok := ep.Responses[emotion]
	if !ok {
		return EmotionResponse{Intensity: 1.0, Recovery: RecoveryModerate}
	}
	if r.Recovery == "" {
		r.Recovery = RecoveryModerate
	}
	return r
}

// HumorStyle describes what kind of jokes a persona makes and how well they land.
type HumorStyle struct {
	Type      string         `yaml:"type" json:"type"` // dry, self_deprecating, observational, absurdist
	Frequency HumorFrequency `yaml:"frequency" json:"frequency"`
	Timing    HumorTiming    `yaml:"timing" json:"timing"`
}

// Persona is a synthetic author profile. The pipeline treats personas as
// read-only reference data; nothing in the generation path mutates one.
// Emotional and Humor are optional extensions — a nil profile means the
// persona behaves neutrally in the emotional engine and never jokes.
type Persona struct {
	ID         string            `yaml:"id" json:"id"`
	Name       string            `yaml:"name" json:"name"`
	Role       string            `yaml:"role" json:"role"` // role in the conversation dynamic
	Style      string            `yaml:"style" json:"style"`
	Vocabulary Vocabulary        `yaml:"vocabulary" json:"vocabulary"`
	Interests  []string          `yaml:"interests" json:"interests"`
	Emotional  *EmotionalProfile `yaml:"emotional,omitempty" json:"emotional,omitempty"`
	Humor      *HumorStyle       `yaml:"humor,omitempty" json:"humor,omitempty"`
}

// FrustrationResponse is a convenience accessor for the frustration entry of
// the emotional profile, used by the frustration curve generator.
func (p Persona) FrustrationResponse() EmotionResponse {
	return p.Emotional.Response("frustration")
}

// SubredditContext describes the target community. Immutable reference data.
type SubredditContext struct {
	Name               string             `yaml:"name" json:"name"`
	FormalityLevel     float64            `yaml:"formality_level" json:"formality_level"`
	Culture            string             `yaml:"culture" json:"culture"`
	AcceptedLanguage   []string           `yaml:"accepted_language" json:"accepted_language"`
	AvoidedLanguage    []string           `yaml:"avoided_language" json:"avoided_language"`
	ModStrictness      string             `yaml:"mod_strictness" json:"mod_strictness"` // relaxed, standard, strict
	PromotionTolerance PromotionTolerance `yaml:"promotion_tolerance" json:"promotion_tolerance"`
	CommonTopics       []string           `yaml:"common_topics" json:"common_topics"`
}

// CompanyContext is the product being marketed, supplied per campaign.
type CompanyContext struct {
	Name        string   `yaml:"name" json:"name"`
	Product     string   `yaml:"product" json:"product"`
	ValueProps  []string `yaml:"value_props" json:"value_props"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	Activities  []string `yaml:"activities,omitempty" json:"activities,omitempty"` // natural-language user pain points
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}
