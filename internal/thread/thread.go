// Package thread holds the conversation data model shared by the designer,
// the scorer, and the calendar planner.
package thread

import (
	"encoding/json"
	"fmt"
	"os"
)

// Post is the thread opener.
type Post struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	PersonaID      string `json:"persona_id"`
	ProductMention bool   `json:"product_mention"`
}

// Comment is a top-level reply to the post.
type Comment struct {
	ID             string `json:"id"`
	PersonaID      string `json:"persona_id"`
	Body           string `json:"body"`
	ProductMention bool   `json:"product_mention"`
	OffsetMinutes  int    `json:"offset_minutes"` // minutes after the post
}

// Reply is a nested response to a top-level comment.
type Reply struct {
	ID              string `json:"id"`
	ParentCommentID string `json:"parent_comment_id"`
	PersonaID       string `json:"persona_id"`
	Body            string `json:"body"`
	ProductMention  bool   `json:"product_mention"`
	OffsetMinutes   int    `json:"offset_minutes"`
}

// ConversationThread is one fully assembled conversation.
type ConversationThread struct {
	ID               string        `json:"id"`
	Subreddit        string        `json:"subreddit"`
	ArcType          string        `json:"arc_type"`
	Post             Post          `json:"post"`
	TopLevelComments []Comment     `json:"top_level_comments"`
	Replies          []Reply       `json:"replies"`
	Quality          *QualityScore `json:"quality,omitempty"`
}

// Validate checks the structural invariants: every reply must reference an
// existing top-level comment, and the first comment must never carry a
// product mention.
func (t *ConversationThread) Validate() error {
	ids := make(map[string]bool, len(t.TopLevelComments))
	for _, c := range t.TopLevelComments {
		if c.ID == "" {
			return fmt.Errorf("thread %s: comment with empty id", t.ID)
		}
		ids[c.ID] = true
	}
	for _, r := range t.Replies {
		if !ids[r.ParentCommentID] {
			return fmt.Errorf("thread %s: reply %s references unknown comment %s", t.ID, r.ID, r.ParentCommentID)
		}
	}
	if len(t.TopLevelComments) > 0 && t.TopLevelComments[0].ProductMention {
		return fmt.Errorf("thread %s: first comment carries a product mention", t.ID)
	}
	return nil
}

// RepliesByPersona returns the number of replies authored by the persona.
func (t *ConversationThread) RepliesByPersona(personaID string) int {
	n := 0
	for _, r := range t.Replies {
		if r.PersonaID == personaID {
			n++
		}
	}
	return n
}

// DistinctCommenters returns the number of unique personas across the
// top-level comments.
func (t *ConversationThread) DistinctCommenters() int {
	seen := make(map[string]bool)
	for _, c := range t.TopLevelComments {
		seen[c.PersonaID] = true
	}
	return len(seen)
}

// Save writes the thread as indented JSON.
func Save(t *ConversationThread, path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal thread: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write thread to %s: %w", path, err)
	}
	return nil
}

// Load reads a thread back from disk and validates it.
func Load(path string) (*ConversationThread, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read thread from %s: %w", path, err)
	}
	var t ConversationThread
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse thread from %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
