package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Session identifies one transcript file. Index is the 1-based ordinal
// assigned after sorting by descending mtime (ties broken by path); it is
// recomputed on every discovery pass and never persisted.
type Session struct {
	Index         int    `json:"index"`
	ID            string `json:"id"`
	ShortID       string `json:"id_short"`
	Project       string `json:"project"`
	Path          string `json:"path"`
	ModifiedISO   string `json:"modified_iso"`
	ModifiedEpoch int64  `json:"modified_epoch"`
	SizeBytes     int64  `json:"size_bytes"`
}

// TimeWindow filters sessions by modification time. Zero bounds are open.
type TimeWindow struct {
	Since time.Time
	Until time.Time
}

func (w TimeWindow) contains(t time.Time) bool {
	if !w.Since.IsZero() && t.Before(w.Since) {
		return false
	}
	if !w.Until.IsZero() && t.After(w.Until) {
		return false
	}
	return true
}

// Discover walks claudeDir for .jsonl transcripts within the time window and
// returns them newest first with ordinals assigned. Subagent directories and
// sessions-index files are skipped, as are unreadable subtrees.
func Discover(claudeDir string, window TimeWindow) ([]Session, error) {
	if _, err := os.Stat(claudeDir); err != nil {
		return nil, fmt.Errorf("claude directory does not exist: %s", claudeDir)
	}

	var sessions []Session
	err := filepath.Walk(claudeDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			if filepath.Base(path) == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".jsonl" {
			return nil
		}
		if strings.Contains(filepath.Base(path), "sessions-index") {
			return nil
		}

		modified := info.ModTime().UTC()
		if !window.contains(modified) {
			return nil
		}

		id := strings.TrimSuffix(filepath.Base(path), ".jsonl")
		sessions = append(sessions, Session{
			ID:            id,
			ShortID:       ShortID(id),
			Project:       filepath.Base(filepath.Dir(path)),
			Path:          path,
			ModifiedISO:   modified.Format(time.RFC3339),
			ModifiedEpoch: modified.Unix(),
			SizeBytes:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", claudeDir, err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].ModifiedEpoch != sessions[j].ModifiedEpoch {
			return sessions[i].ModifiedEpoch > sessions[j].ModifiedEpoch
		}
		return sessions[i].Path < sessions[j].Path
	})
	for i := range sessions {
		sessions[i].Index = i + 1
	}
	return sessions, nil
}

// Resolve finds a session by 1-based ordinal, full id, or short id.
func Resolve(sessions []Session, target string) (*Session, error) {
	if index, err := strconv.Atoi(target); err == nil {
		if index == 0 {
			return nil, fmt.Errorf("session index is 1-based; got 0")
		}
		if index < 1 || index > len(sessions) {
			return nil, fmt.Errorf("invalid session index %d", index)
		}
		return &sessions[index-1], nil
	}
	for i := range sessions {
		if sessions[i].ID == target || sessions[i].ShortID == target {
			return &sessions[i], nil
		}
	}
	return nil, fmt.Errorf("session not found: %s", target)
}

// ShortID returns the first 8 characters of a session id.
func ShortID(id string) string {
	runes := []rune(id)
	if len(runes) <= 8 {
		return id
	}
	return string(runes[:8])
}
