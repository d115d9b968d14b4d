// Package history loads usage data from the Claude data directory: the
// history.jsonl conversation log, the stats-cache.json token aggregates, and
// per-project session logs.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dotcommander/tokencraft/internal/types"
)

// Entry is one raw line of history.jsonl. The log has grown several shapes
// over time; Entry keeps the union and normalization happens in Message().
type Entry struct {
	SessionID string          `json:"sessionId"`
	Project   string          `json:"project"`
	Timestamp time.Time       `json:"timestamp"`
	Role      string          `json:"role"`
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Tokens    int             `json:"tokens"`
	Content   json.RawMessage `json:"content"`
	ToolCalls []rawToolCall   `json:"toolCalls"`
}

type rawToolCall struct {
	Name  string `json:"name"`
	Input struct {
		FilePath string `json:"file_path"`
		Command  string `json:"command"`
	} `json:"input"`
}

// contentBlock is one element of a structured assistant content array.
type contentBlock struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Name  string `json:"name"`
	Input struct {
		FilePath string `json:"file_path"`
		Command  string `json:"command"`
	} `json:"input"`
}

// Message normalizes an entry into the shape the scorers consume.
func (e Entry) Message() types.Message {
	msg := types.Message{
		Role:      e.Role,
		Tokens:    e.Tokens,
		Timestamp: e.Timestamp,
	}
	// Old-format lines tag user turns as {"type": "say", "text": ...}.
	if msg.Role == "" && e.Type == "say" {
		msg.Role = "user"
	}
	msg.Content = e.Text

	if len(e.Content) > 0 {
		var s string
		if err := json.Unmarshal(e.Content, &s); err == nil {
			msg.Content = s
		} else {
			var blocks []contentBlock
			if err := json.Unmarshal(e.Content, &blocks); err == nil {
				for _, b := range blocks {
					switch b.Type {
					case "text":
						if msg.Content == "" {
							msg.Content = b.Text
						}
					case "tool_use":
						msg.ToolCalls = append(msg.ToolCalls, types.ToolCall{
							Name:     b.Name,
							FilePath: b.Input.FilePath,
							Command:  b.Input.Command,
						})
					}
				}
			}
		}
	}

	for _, tc := range e.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, types.ToolCall{
			Name:     tc.Name,
			FilePath: tc.Input.FilePath,
			Command:  tc.Input.Command,
		})
	}
	return msg
}

// LoadHistory reads a history.jsonl file, skipping blank and malformed
// lines. One bad line must not discard an otherwise usable log.
func LoadHistory(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return entries, nil
}

// statsDoc supports both the old "models" and new "modelUsage" key.
type statsDoc struct {
	Models     map[string]types.ModelUsage `json:"models"`
	ModelUsage map[string]types.ModelUsage `json:"modelUsage"`
}

// LoadStats reads stats-cache.json. A missing file yields empty stats, not
// an error.
func LoadStats(path string) (types.UsageStats, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return types.UsageStats{}, nil
	}
	if err != nil {
		return types.UsageStats{}, fmt.Errorf("failed to read stats file: %w", err)
	}

	var doc statsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return types.UsageStats{}, fmt.Errorf("failed to parse stats file: %w", err)
	}
	models := doc.Models
	if len(models) == 0 {
		models = doc.ModelUsage
	}
	return types.UsageStats{Models: models}, nil
}

// GroupSessions groups raw entries by session id, preserving first-seen
// order. Entries with no session id land in an "unknown" session.
func GroupSessions(entries []Entry) []types.Session {
	index := map[string]int{}
	var sessions []types.Session

	for _, e := range entries {
		id := e.SessionID
		if id == "" {
			id = "unknown"
		}
		i, ok := index[id]
		if !ok {
			i = len(sessions)
			index[id] = i
			project := e.Project
			if project == "" {
				project = "unknown"
			}
			sessions = append(sessions, types.Session{
				ID:        id,
				Project:   project,
				Timestamp: e.Timestamp,
			})
		}
		sessions[i].Messages = append(sessions[i].Messages, e.Message())
	}
	return sessions
}

// DiscoverProjectLogs finds per-project session logs under root, newest
// first. Project logs supplement history.jsonl for tool-level analysis.
func DiscoverProjectLogs(root string) ([]string, error) {
	pattern := filepath.Join(root, "projects", "**", "*.jsonl")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob project logs: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		fi, erri := os.Stat(matches[i])
		fj, errj := os.Stat(matches[j])
		if erri != nil || errj != nil {
			return matches[i] < matches[j]
		}
		return fi.ModTime().After(fj.ModTime())
	})
	return matches, nil
}

// Load reads everything the scorer needs from a Claude data directory:
// history.jsonl, discovered project session logs, and stats-cache.json.
// Sessions already present in the main log are not loaded twice.
func Load(root string) ([]types.Session, types.UsageStats, error) {
	entries, err := LoadHistory(filepath.Join(root, "history.jsonl"))
	if err != nil {
		return nil, types.UsageStats{}, err
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.SessionID] = true
	}

	logs, err := DiscoverProjectLogs(root)
	if err != nil {
		return nil, types.UsageStats{}, err
	}
	for _, path := range logs {
		extra, err := LoadHistory(path)
		if err != nil {
			return nil, types.UsageStats{}, err
		}
		// Project logs often omit the ids the main log carries; the log's
		// own location fills them in.
		sessionID := strings.TrimSuffix(filepath.Base(path), ".jsonl")
		project := filepath.Base(filepath.Dir(path))
		for _, e := range extra {
			if e.SessionID == "" {
				e.SessionID = sessionID
			}
			if e.Project == "" {
				e.Project = project
			}
			if seen[e.SessionID] {
				continue
			}
			entries = append(entries, e)
		}
	}

	stats, err := LoadStats(filepath.Join(root, "stats-cache.json"))
	if err != nil {
		return nil, types.UsageStats{}, err
	}
	return GroupSessions(entries), stats, nil
}
