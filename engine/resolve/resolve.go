// Package resolve maps free-text names typed by the player to content IDs.
package resolve

import (
	"fmt"
	"strings"
	"unicode"
)

// Candidate is one resolvable thing: an owned item, a visible NPC.
type Candidate struct {
	ID   string
	Name string
}

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no candidate matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("nothing called %q", e.Name)
}

// Normalize case-folds and trims text, keeps only letters, digits and
// spaces, and collapses runs of whitespace. Every name comparison in the
// engine goes through it.
func Normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Resolve finds the candidate a query refers to. Matching runs in stages and
// the first stage with a hit wins:
//
//  1. exact id, either as typed or with spaces turned into underscores
//  2. normalized name equal to the normalized query
//  3. normalized name containing the normalized query, if exactly one does
//
// Candidates are checked in the order given.
func Resolve(query string, candidates []Candidate) (string, error) {
	norm := Normalize(query)
	if norm == "" {
		return "", &NotFoundError{Name: query}
	}

	asID := strings.ReplaceAll(norm, " ", "_")
	for _, c := range candidates {
		if c.ID == query || c.ID == asID {
			return c.ID, nil
		}
	}

	for _, c := range candidates {
		if Normalize(c.Name) == norm {
			return c.ID, nil
		}
	}

	var matches []Candidate
	for _, c := range candidates {
		if strings.Contains(Normalize(c.Name), norm) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: query}
	case 1:
		return matches[0].ID, nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return "", &AmbiguityError{Name: norm, Candidates: names}
	}
}
