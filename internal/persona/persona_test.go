package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionalProfileResponseDefaults(t *testing.T) {
	var nilProfile *EmotionalProfile
	r := nilProfile.Response("frustration")
	assert.Equal(t, 1.0, r.Intensity)
	assert.Equal(t, RecoveryModerate, r.Recovery)

	ep := &EmotionalProfile{Responses: map[string]EmotionResponse{
		"frustration": {Intensity: 1.3, Recovery: RecoverySlow},
		"relief":      {Intensity: 0.9}, // recovery left empty
	}}
	assert.Equal(t, 1.3, ep.Response("frustration").Intensity)
	assert.Equal(t, RecoverySlow, ep.Response("frustration").Recovery)
	assert.Equal(t, RecoveryModerate, ep.Response("relief").Recovery, "empty recovery fills with moderate")
	assert.Equal(t, 1.0, ep.Response("excitement").Intensity, "missing emotion defaults neutral")
}

func TestScoreForSubredditPrefersMatchingFormality(t *testing.T) {
	sub := SubredditContext{Name: "x", FormalityLevel: 0.3, CommonTopics: []string{"automation"}}
	casual := Persona{ID: "a", Vocabulary: Vocabulary{Formality: 0.3}, Interests: []string{"automation"}}
	formal := Persona{ID: "b", Vocabulary: Vocabulary{Formality: 0.9}, Interests: []string{"automation"}}

	assert.Greater(t, ScoreForSubreddit(casual, sub), ScoreForSubreddit(formal, sub))
}

func TestPickLeastUsedRotates(t *testing.T) {
	sub := DefaultSubreddits[0]
	tracker := NewUsageTracker()

	first := tracker.PickLeastUsed(DefaultPersonas, sub)
	tracker.Record(first.ID, sub.Name)

	second := tracker.PickLeastUsed(DefaultPersonas, sub)
	assert.NotEqual(t, first.ID, second.ID, "a just-used persona should be penalized")

	assert.Equal(t, 1, tracker.PersonaUses(first.ID))
	assert.Equal(t, 1, tracker.SubredditUses(sub.Name))
	assert.Equal(t, 1, tracker.ComboUses(first.ID, sub.Name))
	assert.Equal(t, 0, tracker.ComboUses(second.ID, sub.Name))
}

func TestDefaultLibraryIsValid(t *testing.T) {
	lib := DefaultLibrary()
	require.NoError(t, lib.validate())
	assert.GreaterOrEqual(t, len(lib.Personas), 2)
	assert.NotEmpty(t, lib.Subreddits)
}

func writeLibrary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadLibraryPartialOverride(t *testing.T) {
	path := writeLibrary(t, `
personas:
  - id: quinn
    name: Quinn
    role: tester
    vocabulary:
      formality: 0.4
`)
	lib, err := LoadLibrary(path)
	require.NoError(t, err)

	require.Len(t, lib.Personas, 1)
	assert.Equal(t, "quinn", lib.Personas[0].ID)
	assert.Equal(t, DefaultSubreddits, lib.Subreddits, "empty subreddit section falls back to defaults")
}

func TestLoadLibraryRejectsDuplicateIDs(t *testing.T) {
	path := writeLibrary(t, `
personas:
  - id: quinn
    vocabulary: {formality: 0.4}
  - id: quinn
    vocabulary: {formality: 0.5}
`)
	_, err := LoadLibrary(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate persona id")
}

func TestLoadLibraryRejectsBadFormality(t *testing.T) {
	path := writeLibrary(t, `
subreddits:
  - name: somewhere
    formality_level: 1.5
`)
	_, err := LoadLibrary(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formality")
}

func TestFindPersonaAndSubreddit(t *testing.T) {
	p, ok := FindPersona(DefaultPersonas, DefaultPersonas[0].ID)
	require.True(t, ok)
	assert.Equal(t, DefaultPersonas[0].Name, p.Name)

	_, ok = FindPersona(DefaultPersonas, "nobody")
	assert.False(t, ok)

	s, ok := FindSubreddit(DefaultSubreddits, "devops")
	require.True(t, ok)
	assert.Equal(t, "devops", s.Name)

	_, ok = FindSubreddit(DefaultSubreddits, "r/devops")
	assert.False(t, ok)
}
