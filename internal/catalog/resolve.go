// Package catalog resolves user-typed country and indicator names against
// the reference lists.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/tinytelemetry/econdash/internal/model"
)

// maxDistanceRatio is the largest edit distance, relative to the longer
// string, still accepted as a typo.
const maxDistanceRatio = 0.4

const maxSuggestions = 3

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a query that matched nothing, with the closest names.
type NotFoundError struct {
	Kind        string
	Query       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Kind, e.Query)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type entry struct {
	id   string
	name string
}

// ResolveCountry finds the country matching query by id, then by name, then
// by the closest name within typo distance.
func ResolveCountry(list []model.Country, query string) (model.Country, error) {
	entries := make([]entry, len(list))
	for i, c := range list {
		entries[i] = entry{id: c.ID, name: c.Name}
	}
	i, err := resolve("country", entries, query)
	if err != nil {
		return model.Country{}, err
	}
	return list[i], nil
}

// ResolveIndicator finds the indicator matching query the same way as
// ResolveCountry.
func ResolveIndicator(list []model.Indicator, query string) (model.Indicator, error) {
	entries := make([]entry, len(list))
	for i, ind := range list {
		entries[i] = entry{id: ind.ID, name: ind.Name}
	}
	i, err := resolve("indicator", entries, query)
	if err != nil {
		return model.Indicator{}, err
	}
	return list[i], nil
}

func resolve(kind string, entries []entry, query string) (int, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return -1, &NotFoundError{Kind: kind, Query: query}
	}

	for i, e := range entries {
		if strings.EqualFold(e.id, q) {
			return i, nil
		}
	}
	for i, e := range entries {
		if strings.EqualFold(e.name, q) {
			return i, nil
		}
	}

	type scored struct {
		idx   int
		ratio float64
	}
	upper := strings.ToUpper(q)
	ranked := make([]scored, 0, len(entries))
	for i, e := range entries {
		name := strings.ToUpper(e.name)
		longest := max(utf8.RuneCountInString(name), utf8.RuneCountInString(upper))
		if longest == 0 {
			continue
		}
		dist := levenshtein.ComputeDistance(name, upper)
		ranked = append(ranked, scored{idx: i, ratio: float64(dist) / float64(longest)})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].ratio < ranked[b].ratio })

	if len(ranked) > 0 && ranked[0].ratio < maxDistanceRatio {
		return ranked[0].idx, nil
	}

	nf := &NotFoundError{Kind: kind, Query: query}
	for _, s := range ranked {
		if len(nf.Suggestions) == maxSuggestions {
			break
		}
		nf.Suggestions = append(nf.Suggestions, entries[s.idx].name)
	}
	return -1, nf
}
