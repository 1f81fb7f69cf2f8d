package progress

import "time"

// Stage identifies which part of thread generation is active.
type Stage string

const (
	StageCast     Stage = "cast"
	StagePost     Stage = "post"
	StageComments Stage = "comments"
	StageReplies  Stage = "replies"
	StageScore    Stage = "score"
	StageComplete Stage = "complete"
)

// Event carries progress information from the designer to the renderer.
type Event struct {
	Stage   Stage
	Message string
	Percent float64 // 0.0–1.0
	Elapsed time.Duration
	Error   error
	// OutputFile is set on StageComplete with the saved thread path.
	OutputFile string
	// Quality is the predicted thread quality (0-100), set on StageComplete.
	Quality int
	// Grade is the quality grade label, set on StageComplete.
	Grade string
}

// Callback is the function signature for progress event handlers.
type Callback func(Event)

// NopCallback is a no-op progress callback for tests and silent mode.
func NopCallback(Event) {}

// NewEvent creates an Event with common fields populated.
func NewEvent(stage Stage, msg string, pct float64, start time.Time) Event {
	return Event{
		Stage:   stage,
		Message: msg,
		Percent: pct,
		Elapsed: time.Since(start),
	}
}
