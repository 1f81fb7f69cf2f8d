package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chad/threadsmith/internal/calendar"
	"github.com/chad/threadsmith/internal/thread"
)

var (
	flagPublishAPIURL   string
	flagPublishCampaign string
)

var publishCmd = &cobra.Command{
	Use:   "publish <plan-or-thread.json>",
	Short: "Upload a week plan or single thread to the campaign dashboard",
	Long:  "Upload generated threads to the campaign dashboard for review and posting. Accepts a calendar plan or a single thread JSON file.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&flagPublishAPIURL, "api-url", "https://dashboard.threadsmith.dev", "API base URL")
	publishCmd.Flags().StringVar(&flagPublishCampaign, "campaign", "", "Campaign name (default: derived from the file name)")
}

// --- Types ---

type publishThread struct {
	Campaign    string                     `json:"campaign"`
	Title       string                     `json:"title"`
	Subreddit   string                     `json:"subreddit"`
	ArcType     string                     `json:"arcType"`
	ScheduledAt *time.Time                 `json:"scheduledAt,omitempty"`
	Quality     int                        `json:"quality"`
	Thread      *thread.ConversationThread `json:"thread"`
}

type publishResponse struct {
	ThreadID string `json:"threadId"`
	Status   string `json:"status"`
}

// --- Handler ---

func runPublish(cmd *cobra.Command, args []string) error {
	path := args[0]

	items, err := loadPublishable(path)
	if err != nil {
		return err
	}
	fmt.Printf("File: %s (%d threads)\n", path, len(items))

	campaign := flagPublishCampaign
	if campaign == "" {
		base := filepath.Base(path)
		campaign = strings.TrimSuffix(base, filepath.Ext(base))
	}

	apiKey, keySource, err := resolveAPIKey()
	if err != nil {
		return err
	}
	fmt.Printf("API key: found (%s)\n", keySource)

	published := 0
	for _, item := range items {
		item.Campaign = campaign
		fmt.Printf("Uploading r/%s %q...", item.Subreddit, item.Title)

		var resp publishResponse
		err := publishRetry(func() error {
			return postJSON(flagPublishAPIURL+"/api/campaigns/threads", apiKey, item, &resp)
		})
		if err != nil {
			fmt.Println(" failed")
			return fmt.Errorf("upload thread %s: %w", item.Thread.ID, err)
		}
		fmt.Printf(" ok (id: %s)\n", resp.ThreadID)
		published++
	}

	fmt.Printf("\nPublished %d threads to campaign %q\n", published, campaign)
	fmt.Printf("  URL: %s/campaigns\n", flagPublishAPIURL)
	return nil
}

// loadPublishable reads either a calendar plan or a single thread file and
// normalizes both into a publish list.
func loadPublishable(path string) ([]publishThread, error) {
	if plan, err := calendar.Load(path); err == nil && len(plan.Threads) > 0 {
		items := make([]publishThread, 0, len(plan.Threads))
		for _, st := range plan.Threads {
			at := st.ScheduledAt
			items = append(items, toPublish(st.Thread, &at))
		}
		return items, nil
	}

	t, err := thread.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s is neither a readable plan nor a thread: %w", path, err)
	}
	return []publishThread{toPublish(t, nil)}, nil
}

func toPublish(t *thread.ConversationThread, at *time.Time) publishThread {
	quality := 0
	if t.Quality != nil {
		quality = t.Quality.Overall
	}
	return publishThread{
		Title:       t.Post.Title,
		Subreddit:   t.Subreddit,
		ArcType:     t.ArcType,
		ScheduledAt: at,
		Quality:     quality,
		Thread:      t,
	}
}

// --- API key resolution ---

func resolveAPIKey() (key, source string, err error) {
	// 1. Environment variable
	if k := os.Getenv("THREADSMITH_API_KEY"); k != "" {
		return k, "env:THREADSMITH_API_KEY", nil
	}

	// 2. Secrets file
	home, _ := os.UserHomeDir()
	if home != "" {
		secretPath := filepath.Join(home, ".secrets", "threadsmith-api-key")
		if data, err := os.ReadFile(secretPath); err == nil {
			k := strings.TrimSpace(string(data))
			if k != "" {
				return k, secretPath, nil
			}
		}
	}

	// 3. Config file
	if home != "" {
		configPath := filepath.Join(home, ".config", "threadsmith", "config.json")
		if data, err := os.ReadFile(configPath); err == nil {
			var cfg struct {
				APIKey string `json:"apiKey"`
			}
			if json.Unmarshal(data, &cfg) == nil && cfg.APIKey != "" {
				return cfg.APIKey, configPath, nil
			}
		}
	}

	return "", "", fmt.Errorf("API key not found — set THREADSMITH_API_KEY or create ~/.config/threadsmith/config.json")
}

// --- HTTP helpers ---

func postJSON(url, apiKey string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}

	return nil
}

// --- Retry ---

func publishRetry(fn func() error) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if attempt < 2 {
			time.Sleep(backoffs[attempt])
		}
	}
	return lastErr
}
