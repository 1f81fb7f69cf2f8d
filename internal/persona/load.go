package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Library bundles the reference data the pipeline reads from. Construct one
// with DefaultLibrary or LoadLibrary and pass it in; nothing reads package
// state at runtime.
type Library struct {
	Personas   []Persona          `yaml:"personas"`
	Subreddits []SubredditContext `yaml:"subreddits"`
}

// DefaultLibrary returns the built-in personas and subreddits.
func DefaultLibrary() *Library {
	return &Library{
		Personas:   DefaultPersonas,
		Subreddits: DefaultSubreddits,
	}
}

// LoadLibrary reads a YAML library file. Sections left empty in the file fall
// back to the built-in defaults, so a file can override just personas or just
// subreddits.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library from %s: %w", path, err)
	}
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse library from %s: %w", path, err)
	}
	if len(lib.Personas) == 0 {
		lib.Personas = DefaultPersonas
	}
	if len(lib.Subreddits) == 0 {
		lib.Subreddits = DefaultSubreddits
	}
	if err := lib.validate(); err != nil {
		return nil, fmt.Errorf("library %s: %w", path, err)
	}
	return &lib, nil
}

func (l *Library) validate() error {
	seen := make(map[string]bool, len(l.Personas))
	for i, p := range l.Personas {
		if p.ID == "" {
			return fmt.Errorf("persona %d has no id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate persona id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Vocabulary.Formality < 0 || p.Vocabulary.Formality > 1 {
			return fmt.Errorf("persona %q formality %v out of [0,1]", p.ID, p.Vocabulary.Formality)
		}
	}
	for i, s := range l.Subreddits {
		if s.Name == "" {
			return fmt.Errorf("subreddit %d has no name", i)
		}
		if s.FormalityLevel < 0 || s.FormalityLevel > 1 {
			return fmt.Errorf("subreddit %q formality %v out of [0,1]", s.Name, s.FormalityLevel)
		}
	}
	return nil
}
