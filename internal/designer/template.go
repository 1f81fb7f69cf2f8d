package designer

import (
	"github.com/chad/threadsmith/internal/emotion"
)

// CommentSlot configures one top-level comment of an arc template.
type CommentSlot struct {
	Purpose        string
	Tone           string
	Emotion        emotion.Emotion
	TimingMin      int // minutes after the post
	TimingMax      int
	ProductMention bool
}

// ReplySlot configures one nested reply.
type ReplySlot struct {
	TargetComment int // index into the comment slots
	FromOP        bool
	Purpose       string
	Tone          string
	TimingMin     int
	TimingMax     int
}

// ArcTemplate is the static configuration for one arc type: the post framing
// plus per-slot comment and reply templates.
type ArcTemplate struct {
	Arc         emotion.ArcType
	PostPurpose string
	PostTone    string
	Comments    []CommentSlot
	Replies     []ReplySlot
}

// arcTemplates are the three canonical thread shapes. Comment slot counts
// must match the emotion package's arc stage counts; TestTemplatesMatchArcStages
// enforces that.
var arcTemplates = map[emotion.ArcType]ArcTemplate{
	emotion.ArcDiscovery: {
		Arc:         emotion.ArcDiscovery,
		PostPurpose: "describe a concrete recurring problem that's wearing you down, end by asking how others handle it",
		PostTone:    "frustrated but self-aware",
		Comments: []CommentSlot{
			{Purpose: "commiserate and share how you hit the same wall", Tone: "sympathetic", Emotion: emotion.Frustration, TimingMin: 15, TimingMax: 60},
			{Purpose: "ask a clarifying question about the poster's setup", Tone: "curious", Emotion: emotion.Curiosity, TimingMin: 30, TimingMax: 90},
			{Purpose: "suggest a general approach that worked for you, no product names", Tone: "helpful", Emotion: emotion.CautiousOptimism, TimingMin: 45, TimingMax: 120},
			{Purpose: "mention the specific thing that finally fixed this for you, as lived experience", Tone: "relieved", Emotion: emotion.Relief, TimingMin: 90, TimingMax: 180, ProductMention: true},
			{Purpose: "round off with what your setup looks like now", Tone: "settled", Emotion: emotion.Satisfaction, TimingMin: 150, TimingMax: 300},
		},
		Replies: []ReplySlot{
			{TargetComment: 0, FromOP: true, Purpose: "confirm the commiseration hits home, add one more detail", Tone: "grateful", TimingMin: 20, TimingMax: 45},
			{TargetComment: 2, FromOP: true, Purpose: "ask a follow-up about the suggested approach", Tone: "curious", TimingMin: 20, TimingMax: 60},
			{TargetComment: 3, FromOP: true, Purpose: "ask how the mentioned fix handles your specific case", Tone: "interested", TimingMin: 15, TimingMax: 45},
		},
	},
	emotion.ArcComparison: {
		Arc:         emotion.ArcComparison,
		PostPurpose: "lay out two or three options you're torn between, with what you've checked so far, and ask for real-world experience",
		PostTone:    "methodical, mildly overwhelmed",
		Comments: []CommentSlot{
			{Purpose: "share which option you picked and the context behind it", Tone: "matter-of-fact", Emotion: emotion.Curiosity, TimingMin: 20, TimingMax: 80},
			{Purpose: "challenge the comparison criteria, what actually matters is something else", Tone: "contrarian", Emotion: emotion.Skepticism, TimingMin: 40, TimingMax: 100},
			{Purpose: "vent briefly about trialing all of these yourself", Tone: "wry", Emotion: emotion.Frustration, TimingMin: 60, TimingMax: 140},
			{Purpose: "give a balanced take that lands on one option, with a caveat", Tone: "even-handed", Emotion: emotion.CautiousOptimism, TimingMin: 90, TimingMax: 200, ProductMention: true},
			{Purpose: "describe how the choice played out months later", Tone: "settled", Emotion: emotion.Satisfaction, TimingMin: 180, TimingMax: 360},
		},
		Replies: []ReplySlot{
			{TargetComment: 1, FromOP: true, Purpose: "concede the criteria point and refine the question", Tone: "open", TimingMin: 20, TimingMax: 60},
			{TargetComment: 3, FromOP: true, Purpose: "ask about the caveat in your situation", Tone: "curious", TimingMin: 15, TimingMax: 50},
		},
	},
	emotion.ArcProblemSolver: {
		Arc:         emotion.ArcProblemSolver,
		PostPurpose: "describe an active breaking problem with specifics (what failed, what you tried), ask for diagnosis help",
		PostTone:    "urgent but coherent",
		Comments: []CommentSlot{
			{Purpose: "ask for the one diagnostic detail that's missing", Tone: "direct", Emotion: emotion.Frustration, TimingMin: 10, TimingMax: 30},
			{Purpose: "share the time you hit the same failure and what the cause turned out to be", Tone: "war-story", Emotion: emotion.Frustration, TimingMin: 20, TimingMax: 60},
			{Purpose: "propose the likely root cause with reasoning", Tone: "analytical", Emotion: emotion.Curiosity, TimingMin: 30, TimingMax: 90},
			{Purpose: "describe the thing that permanently fixed this class of problem for you", Tone: "relieved", Emotion: emotion.Relief, TimingMin: 60, TimingMax: 150, ProductMention: true},
			{Purpose: "summarize what the thread converged on for future readers", Tone: "helpful", Emotion: emotion.Satisfaction, TimingMin: 120, TimingMax: 280},
		},
		Replies: []ReplySlot{
			{TargetComment: 0, FromOP: true, Purpose: "supply the missing diagnostic detail", Tone: "prompt", TimingMin: 5, TimingMax: 20},
			{TargetComment: 2, FromOP: true, Purpose: "report back after testing the proposed cause", Tone: "relieved", TimingMin: 30, TimingMax: 90},
			{TargetComment: 3, FromOP: true, Purpose: "thank and ask one practical adoption question", Tone: "grateful", TimingMin: 20, TimingMax: 60},
		},
	},
}

// templateKey folds the seven arc types onto the three canonical thread
// shapes, the same way the frustration timelines do. War stories and vents
// read like discovery threads with the heat turned up; the convert and
// migration arcs are troubleshooting threads at heart.
var templateKey = map[emotion.ArcType]emotion.ArcType{
	emotion.ArcDiscovery:      emotion.ArcDiscovery,
	emotion.ArcWarStory:       emotion.ArcDiscovery,
	emotion.ArcVent:           emotion.ArcDiscovery,
	emotion.ArcComparison:     emotion.ArcComparison,
	emotion.ArcProblemSolver:  emotion.ArcProblemSolver,
	emotion.ArcSkepticConvert: emotion.ArcProblemSolver,
	emotion.ArcMigration:      emotion.ArcProblemSolver,
}

// TemplateFor returns the thread template for an arc type, erroring on
// unknown arc types the same way the emotion package does.
func TemplateFor(arc emotion.ArcType) (ArcTemplate, error) {
	key, ok := templateKey[arc]
	if !ok {
		return ArcTemplate{}, &emotion.ConfigurationError{Field: "arc type", Value: string(arc)}
	}
	return arcTemplates[key], nil
}
