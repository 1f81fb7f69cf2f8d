package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectSource(t *testing.T) {
	cases := []struct {
		input string
		want  SourceType
	}{
		{"https://example.com/product", SourceURL},
		{"http://example.com", SourceURL},
		{"brief.pdf", SourcePDF},
		{"Brief.PDF", SourcePDF},
		{"campaign.yaml", SourceYAML},
		{"campaign.yml", SourceYAML},
		{"notes.txt", SourceText},
		{"README", SourceText},
	}
	for _, tc := range cases {
		if got := DetectSource(tc.input); got != tc.want {
			t.Errorf("DetectSource(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleBrief = `Chronotask — the cron scheduler that never fails silently

Teams running cron across many hosts struggle to notice silent failures.
Tracking job output by hand is tedious and error-prone.

- catches silent failures within a minute
- replaces cron sprawl with one scheduler
- alerts the right person, not everyone

Chronotask monitors every scheduled job and alerts when output drifts.
Scheduler migration takes an afternoon, not a quarter.
`

func TestTextIngester(t *testing.T) {
	path := writeTemp(t, "brief.txt", sampleBrief)
	brief, err := (&TextIngester{}).Ingest(context.Background(), path)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !strings.HasPrefix(brief.Title, "Chronotask") {
		t.Errorf("title = %q", brief.Title)
	}
	if brief.WordCount < 50 {
		t.Errorf("word count = %d, want the full brief", brief.WordCount)
	}
}

func TestTextIngesterRejectsMissingFile(t *testing.T) {
	if _, err := (&TextIngester{}).Ingest(context.Background(), "/nonexistent/brief.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseBrief(t *testing.T) {
	brief := &Brief{Text: sampleBrief, Title: titleFromText(sampleBrief, 80), WordCount: wordCount(sampleBrief)}
	company, problems := ParseBrief(brief)

	if company.Name != "Chronotask" {
		t.Errorf("name = %q, want Chronotask", company.Name)
	}
	if company.Product != "Chronotask" {
		t.Errorf("product = %q", company.Product)
	}
	if len(company.ValueProps) != 3 {
		t.Fatalf("value props = %v, want the 3 bullets", company.ValueProps)
	}
	if company.ValueProps[0] != "catches silent failures within a minute" {
		t.Errorf("first value prop = %q", company.ValueProps[0])
	}
	if len(problems) == 0 {
		t.Fatal("no problems extracted")
	}
	found := false
	for _, p := range problems {
		if strings.Contains(p, "struggle to notice silent failures") {
			found = true
		}
	}
	if !found {
		t.Errorf("problems = %v, want the silent-failures pain point", problems)
	}
	for _, kw := range company.Keywords {
		if kw == "chronotask" {
			t.Error("keywords include the product name itself")
		}
	}
}

func TestLoadCompanyContextYAML(t *testing.T) {
	path := writeTemp(t, "campaign.yaml", `
company:
  name: Chronotask
  value_props:
    - catches silent failures
  keywords: [cron, scheduler]
problems:
  - cron jobs failing silently across hosts
`)
	company, problems, err := LoadCompanyContext(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadCompanyContext: %v", err)
	}
	if company.Name != "Chronotask" {
		t.Errorf("name = %q", company.Name)
	}
	if company.Product != "Chronotask" {
		t.Errorf("product should default to the company name, got %q", company.Product)
	}
	if len(problems) != 1 {
		t.Errorf("problems = %v", problems)
	}
}

func TestLoadCompanyContextYAMLRequiresName(t *testing.T) {
	path := writeTemp(t, "campaign.yaml", "company:\n  product: X\n")
	if _, _, err := LoadCompanyContext(context.Background(), path); err == nil {
		t.Fatal("expected error for missing company name")
	}
}

func TestLoadCompanyContextRejectsThinBrief(t *testing.T) {
	path := writeTemp(t, "brief.txt", "too short to mean anything")
	if _, _, err := LoadCompanyContext(context.Background(), path); err == nil {
		t.Fatal("expected error for a thin brief")
	}
}
