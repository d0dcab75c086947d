package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/Zuo-Peng/cc-convo/internal/scan"
	"github.com/Zuo-Peng/cc-convo/internal/search"
)

// Selection describes which sessions an export should include. Flags
// combine; duplicates collapse; the result keeps discovery order.
type Selection struct {
	Sessions []string // full or short ids
	Indices  []int    // 1-based ordinals
	Recent   int
	All      bool
	Search   string // smart-mode query pre-selection
}

// Select resolves a Selection against the discovered session list. An
// unknown id, a zero index, or an empty overall selection is a hard error.
func Select(sessions []scan.Session, sel Selection) ([]scan.Session, error) {
	seen := make(map[string]struct{})
	var selected []scan.Session
	pushUnique := func(s scan.Session) {
		if _, ok := seen[s.ID]; !ok {
			seen[s.ID] = struct{}{}
			selected = append(selected, s)
		}
	}

	for _, id := range sel.Sessions {
		found := false
		for _, s := range sessions {
			if s.ID == id || s.ShortID == id {
				pushUnique(s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("session not found: %s", id)
		}
	}

	for _, idx := range sel.Indices {
		if idx == 0 {
			return nil, fmt.Errorf("--index uses 1-based indexing; got 0")
		}
		if idx < 1 || idx > len(sessions) {
			return nil, fmt.Errorf("invalid index %d", idx)
		}
		pushUnique(sessions[idx-1])
	}

	if sel.Recent > 0 {
		for i := 0; i < sel.Recent && i < len(sessions); i++ {
			pushUnique(sessions[i])
		}
	}

	if sel.All {
		for _, s := range sessions {
			pushUnique(s)
		}
	}

	if sel.Search != "" {
		hits, err := search.Run(sessions, search.Options{
			Query:        sel.Search,
			Mode:         search.ModeSmart,
			Speaker:      search.SpeakerBoth,
			MaxResults:   math.MaxInt32,
			ContextChars: 150,
		})
		if err != nil {
			return nil, err
		}
		hitIDs := make(map[string]struct{}, len(hits))
		for _, h := range hits {
			hitIDs[h.SessionID] = struct{}{}
		}
		for _, s := range sessions {
			if _, ok := hitIDs[s.ID]; ok {
				pushUnique(s)
			}
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("no selection flags provided; use one of: --session, --index, --recent, --all, --search")
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].Index < selected[j].Index })
	return selected, nil
}
