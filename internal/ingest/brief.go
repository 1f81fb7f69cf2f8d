package ingest

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chad/threadsmith/internal/persona"
)

// briefFile is the structured YAML brief format. YAML briefs skip heuristic
// extraction entirely.
type briefFile struct {
	Company  persona.CompanyContext `yaml:"company"`
	Problems []string               `yaml:"problems"`
}

// LoadCompanyContext ingests a campaign brief and derives the company
// context plus candidate problem statements for threads to be built around.
// YAML briefs are taken verbatim; URLs, PDFs, and plain text go through
// heuristic extraction.
func LoadCompanyContext(ctx context.Context, source string) (*persona.CompanyContext, []string, error) {
	if DetectSource(source) == SourceYAML {
		return loadYAMLBrief(source)
	}

	brief, err := NewIngester(source).Ingest(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	if brief.WordCount < minBriefWords {
		return nil, nil, fmt.Errorf("brief %s too thin (%d words, need at least %d)", source, brief.WordCount, minBriefWords)
	}
	company, problems := ParseBrief(brief)
	return company, problems, nil
}

func loadYAMLBrief(path string) (*persona.CompanyContext, []string, error) {
	if err := validateFile(path); err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read brief %s: %w", path, err)
	}
	var bf briefFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, nil, fmt.Errorf("parse brief %s: %w", path, err)
	}
	if bf.Company.Name == "" {
		return nil, nil, fmt.Errorf("brief %s: company.name is required", path)
	}
	if bf.Company.Product == "" {
		bf.Company.Product = bf.Company.Name
	}
	return &bf.Company, bf.Problems, nil
}

const (
	maxValueProps = 6
	maxKeywords   = 8
	maxProblems   = 6
)

// painMarkers flag sentences describing the user problems the product
// exists to solve.
var painMarkers = []string{
	"struggl", "tired of", "hard to", "pain", "manual", "error-prone",
	"fail", "wast", "tedious", "frustrat", "silent", "breaks", "fragile",
}

// ParseBrief derives a company context from free text: the name from the
// title, value props from bullet lines, keywords by frequency, and problem
// statements from sentences describing pain.
func ParseBrief(b *Brief) (*persona.CompanyContext, []string) {
	name := productName(b.Title)
	company := &persona.CompanyContext{
		Name:        name,
		Product:     name,
		ValueProps:  bulletLines(b.Text),
		Keywords:    topKeywords(b.Text, name),
		Description: titleFromText(b.Text, 200),
	}
	return company, painSentences(b.Text)
}

// productName takes the leading segment of the title, before any tagline
// separator.
func productName(title string) string {
	for _, sep := range []string{" — ", " – ", " - ", ": ", " | "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
			break
		}
	}
	return strings.TrimSpace(title)
}

func bulletLines(text string) []string {
	var props []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		var body string
		switch {
		case strings.HasPrefix(line, "- "):
			body = line[2:]
		case strings.HasPrefix(line, "* "):
			body = line[2:]
		case strings.HasPrefix(line, "• "):
			body = strings.TrimPrefix(line, "• ")
		default:
			continue
		}
		body = strings.TrimSpace(body)
		if body == "" || len(body) > 120 {
			continue
		}
		props = append(props, body)
		if len(props) == maxValueProps {
			break
		}
	}
	return props
}

var stopwords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true, "your": true,
	"have": true, "will": true, "they": true, "them": true, "what": true,
	"when": true, "more": true, "than": true, "into": true, "like": true,
	"just": true, "about": true, "every": true, "their": true, "there": true,
	"which": true, "because": true, "while": true, "where": true, "been": true,
	"over": true, "only": true, "also": true, "other": true, "most": true,
}

func topKeywords(text, product string) []string {
	freq := map[string]int{}
	productLow := strings.ToLower(product)
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,;:!?()[]\"'`*")
		if len(word) < 4 || stopwords[word] || word == productLow {
			continue
		}
		freq[word]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > maxKeywords {
		words = words[:maxKeywords]
	}
	return words
}

func painSentences(text string) []string {
	var problems []string
	for _, sentence := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" || len(sentence) > 200 {
			continue
		}
		low := strings.ToLower(sentence)
		for _, marker := range painMarkers {
			if strings.Contains(low, marker) {
				problems = append(problems, sentence)
				break
			}
		}
		if len(problems) == maxProblems {
			break
		}
	}
	return problems
}
