package thread

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleThread() *ConversationThread {
	return &ConversationThread{
		ID:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Subreddit: "devops",
		ArcType:   "discovery",
		Post: Post{
			Title:     "Cron jobs failing silently for a week, how do you even catch this",
			Body:      "Found out our nightly backup job had been dying for days.",
			PersonaID: "maya-ops",
		},
		TopLevelComments: []Comment{
			{ID: "c1", PersonaID: "dan-graybeard", Body: "Been there.", OffsetMinutes: 14},
			{ID: "c2", PersonaID: "priya-helper", Body: "We wrap everything in a wrapper script.", OffsetMinutes: 45},
			{ID: "c3", PersonaID: "sam-lurker", Body: "Chronotask fixed this for us.", ProductMention: true, OffsetMinutes: 130},
		},
		Replies: []Reply{
			{ID: "r1", ParentCommentID: "c1", PersonaID: "maya-ops", Body: "Exactly this.", OffsetMinutes: 30},
			{ID: "r2", ParentCommentID: "c2", PersonaID: "maya-ops", Body: "Going to try that.", OffsetMinutes: 90},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConversationThread)
		wantErr string
	}{
		{
			name:   "valid thread",
			mutate: func(*ConversationThread) {},
		},
		{
			name: "empty comment id",
			mutate: func(th *ConversationThread) {
				th.TopLevelComments[1].ID = ""
			},
			wantErr: "empty id",
		},
		{
			name: "reply to unknown comment",
			mutate: func(th *ConversationThread) {
				th.Replies[0].ParentCommentID = "c99"
			},
			wantErr: "unknown comment",
		},
		{
			name: "first comment mentions product",
			mutate: func(th *ConversationThread) {
				th.TopLevelComments[0].ProductMention = true
			},
			wantErr: "first comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := sampleThread()
			tt.mutate(th)
			err := th.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	th := sampleThread()
	th.Quality = &QualityScore{Overall: 82, Grade: "good"}
	path := filepath.Join(t.TempDir(), "thread.json")

	require.NoError(t, Save(th, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, th.ID, got.ID)
	assert.Equal(t, th.Post.Title, got.Post.Title)
	assert.Len(t, got.TopLevelComments, 3)
	assert.Len(t, got.Replies, 2)
	require.NotNil(t, got.Quality)
	assert.Equal(t, 82, got.Quality.Overall)
}

func TestLoadRejectsInvalidThread(t *testing.T) {
	th := sampleThread()
	th.TopLevelComments[0].ProductMention = true
	path := filepath.Join(t.TempDir(), "thread.json")
	require.NoError(t, Save(th, path))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestRepliesByPersona(t *testing.T) {
	th := sampleThread()
	assert.Equal(t, 2, th.RepliesByPersona("maya-ops"))
	assert.Equal(t, 0, th.RepliesByPersona("dan-graybeard"))
}

func TestDistinctCommenters(t *testing.T) {
	th := sampleThread()
	assert.Equal(t, 3, th.DistinctCommenters())

	th.TopLevelComments[2].PersonaID = "dan-graybeard"
	assert.Equal(t, 2, th.DistinctCommenters())
}
