package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/cc-convo/internal/parse"
	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

// Mode selects the matching/scoring strategy.
type Mode string

const (
	ModeSmart Mode = "smart"
	ModeExact Mode = "exact"
	ModeRegex Mode = "regex"
)

// Speaker filters hits by event role.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
	SpeakerBoth      Speaker = "both"
)

// Relevance weights. Kept as tunables; the values themselves carry no deeper
// derivation than "they rank sensibly".
const (
	exactBase      = 0.5
	exactPerMatch  = 0.1
	regexScore     = 0.8
	smartPhrase    = 0.6
	smartTokens    = 0.4
	smartThreshold = 0.15
)

// Options are the caller-supplied search parameters.
type Options struct {
	Query         string
	Mode          Mode
	Speaker       Speaker
	CaseSensitive bool
	MaxResults    int
	ContextChars  int
}

// Hit is one ranked match with a bounded context preview.
type Hit struct {
	SessionID string  `json:"session_id"`
	Project   string  `json:"project"`
	Path      string  `json:"path"`
	Speaker   string  `json:"speaker"`
	Timestamp string  `json:"timestamp"`
	Relevance float64 `json:"relevance"`
	Preview   string  `json:"preview"`
}

// Run scans every session's dialog text (terse normalization, never thinking
// or tool blocks) and returns ranked hits, at most MaxResults. An invalid
// regex in regex mode fails before any file is read.
func Run(sessions []scan.Session, opts Options) ([]Hit, error) {
	if opts.MaxResults <= 0 {
		return nil, fmt.Errorf("max results must be > 0")
	}
	if opts.ContextChars <= 0 {
		return nil, fmt.Errorf("context chars must be > 0")
	}

	var re *regexp.Regexp
	if opts.Mode == ModeRegex {
		pattern := opts.Query
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", opts.Query, err)
		}
	}

	query := opts.Query
	if !opts.CaseSensitive {
		query = strings.ToLower(query)
	}
	tokens := strings.Fields(query)

	var hits []Hit
	for i := range sessions {
		session := &sessions[i]
		outcome, err := parse.ParseSession(session.Path, false)
		if err != nil {
			return nil, err
		}
		for _, event := range outcome.Events {
			if opts.Speaker != SpeakerBoth && event.Role != string(opts.Speaker) {
				continue
			}

			haystack := event.Content
			if !opts.CaseSensitive {
				haystack = strings.ToLower(haystack)
			}

			matched, relevance := score(opts.Mode, haystack, event.Content, query, tokens, re)
			if !matched {
				continue
			}

			hits = append(hits, Hit{
				SessionID: session.ID,
				Project:   session.Project,
				Path:      session.Path,
				Speaker:   event.Role,
				Timestamp: event.Timestamp,
				Relevance: relevance,
				Preview:   contextPreview(event.Content, opts.Query, opts.ContextChars, opts.CaseSensitive),
			})
		}
	}

	// Stable sort keeps source order for equal-scored hits within a session.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Relevance != hits[j].Relevance {
			return hits[i].Relevance > hits[j].Relevance
		}
		return hits[i].SessionID < hits[j].SessionID
	})
	if len(hits) > opts.MaxResults {
		hits = hits[:opts.MaxResults]
	}
	return hits, nil
}

func score(mode Mode, haystack, original, query string, tokens []string, re *regexp.Regexp) (bool, float64) {
	switch mode {
	case ModeExact:
		if !strings.Contains(haystack, query) {
			return false, 0
		}
		relevance := exactBase + float64(strings.Count(haystack, query))*exactPerMatch
		if relevance > 1.0 {
			relevance = 1.0
		}
		return true, relevance
	case ModeRegex:
		if re.MatchString(original) {
			return true, regexScore
		}
		return false, 0
	default: // ModeSmart
		relevance := 0.0
		if strings.Contains(haystack, query) {
			relevance += smartPhrase
		}
		if len(tokens) > 0 {
			found := 0
			for _, tok := range tokens {
				if strings.Contains(haystack, tok) {
					found++
				}
			}
			relevance += float64(found) / float64(len(tokens)) * smartTokens
		}
		if relevance > 1.0 {
			relevance = 1.0
		}
		return relevance > smartThreshold, relevance
	}
}

// contextPreview windows the text around the first occurrence of the query,
// bounded to contextChars runes on each side, with "..." affixes when
// clipped. Case folding is done rune by rune so the match position is always
// a valid offset into the original text. When the literal query never occurs
// (regex/smart modes) it falls back to an ellipsized prefix.
func contextPreview(text, query string, contextChars int, caseSensitive bool) string {
	runes := []rune(text)
	needle := []rune(query)
	hay := runes
	if !caseSensitive {
		hay = foldRunes(runes)
		needle = foldRunes(needle)
	}

	matchPos := runeIndex(hay, needle)
	if matchPos < 0 {
		return parse.Ellipsize(strings.ReplaceAll(text, "\n", " "), contextChars*2)
	}

	start := matchPos - contextChars
	if start < 0 {
		start = 0
	}
	end := matchPos + len(needle) + contextChars
	if end > len(runes) {
		end = len(runes)
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString("...")
	}
	return strings.ReplaceAll(b.String(), "\n", " ")
}

func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// runeIndex finds the first occurrence of needle in hay, in rune positions.
func runeIndex(hay, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
