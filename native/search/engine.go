package search

import (
	"bytes"
	"errors"
	"sort"

	"defind/core/types"
	"defind/native/stake"
)

var (
	errNilState = errors.New("search engine: state not configured")

	// ErrInvalidPageSize rejects a query with zero entries per page.
	ErrInvalidPageSize = errors.New("search engine: entries per page must be positive")
)

type engineState interface {
	TermStakesGet(term string) ([]types.TermStake, bool, error)
	DescriptionGet(website types.Website) (*types.WebsiteDescription, bool, error)
}

// Engine ranks websites by their share of stake on the queried terms. It is
// stateless beyond the read view of the stake ledger it queries.
type Engine struct {
	state engineState
}

// NewEngine constructs a search engine over the given read view.
func NewEngine(state engineState) *Engine {
	return &Engine{state: state}
}

type scored struct {
	website types.Website
	score   float64
}

// Search computes a normalized score per website across the queried terms and
// returns the requested page of descriptions, best matches first.
//
// For each term every staked website earns amount/termTotal, so a term's
// scores always sum to 1 regardless of how much absolute stake it carries.
// Scores are accumulated across terms, sorted descending, and tie-broken by
// the website key (owner, then link) so results are reproducible. Pages are
// consecutive 0-based chunks of entriesPerPage; an out-of-range page yields
// an empty result.
func (e *Engine) Search(terms []string, page uint64, entriesPerPage uint64) ([]types.WebsiteDescription, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if entriesPerPage == 0 {
		return nil, ErrInvalidPageSize
	}

	scores := make(map[types.Website]float64)
	for _, term := range terms {
		normalized := stake.NormalizeTerm(term)
		entries, _, err := e.state.TermStakesGet(normalized)
		if err != nil {
			return nil, err
		}
		termTotal := uint64(0)
		for _, entry := range entries {
			termTotal += entry.Amount
		}
		if termTotal == 0 {
			continue
		}
		for _, entry := range entries {
			scores[entry.Website] += float64(entry.Amount) / float64(termTotal)
		}
	}

	ranked := make([]scored, 0, len(scores))
	for website, score := range scores {
		ranked = append(ranked, scored{website: website, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		a, b := ranked[i].website, ranked[j].website
		if cmp := bytes.Compare(a.Owner[:], b.Owner[:]); cmp != 0 {
			return cmp < 0
		}
		return a.Link < b.Link
	})

	total := uint64(len(ranked))
	if total == 0 || page > (total-1)/entriesPerPage {
		return []types.WebsiteDescription{}, nil
	}
	start := page * entriesPerPage
	end := start + entriesPerPage
	if end > total {
		end = total
	}

	results := make([]types.WebsiteDescription, 0, end-start)
	for _, entry := range ranked[start:end] {
		desc, ok, err := e.state.DescriptionGet(entry.website)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Should never happen while the registry and stake ledger stay
			// consistent; skip rather than fail the whole query.
			continue
		}
		results = append(results, *desc)
	}
	return results, nil
}
