package task

import (
	"strings"
)

type Priority string

const (
	PriorityHigh Priority = "high"
	PriorityMed  Priority = "med"
	PriorityLow  Priority = "low"
	PriorityNone Priority = "none"
)

func normalizeKeyword(s string) string {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	return normalized
}

func ParsePriority(s string) (Priority, bool) {
	switch normalizeKeyword(s) {
	case "", "none", "no", "0":
		return PriorityNone, true
	case "high", "hi", "h", "1":
		return PriorityHigh, true
	case "med", "medium", "normal", "m", "2":
		return PriorityMed, true
	case "low", "lo", "l", "3":
		return PriorityLow, true
	default:
		return PriorityNone, false
	}
}

// KeywordSet maps a canonical keyword to its accepted synonyms. Users extend
// the defaults through configuration to match their own task vocabularies.
type KeywordSet map[string][]string

// Canonical resolves a raw keyword to its canonical form. Unknown keywords
// resolve to their normalized spelling, so uncustomized vocabularies still
// compare consistently.
func (k KeywordSet) Canonical(raw string) string {
	normalized := normalizeKeyword(raw)
	if _, ok := k[normalized]; ok {
		return normalized
	}
	for canonical, synonyms := range k {
		for _, syn := range synonyms {
			if normalizeKeyword(syn) == normalized {
				return canonical
			}
		}
	}
	return normalized
}

// DefaultStates returns the built-in state vocabulary.
func DefaultStates() KeywordSet {
	return KeywordSet{
		"todo":      {"todo", "to_do", "open", "ready"},
		"doing":     {"doing", "in_progress", "wip", "started"},
		"done":      {"done", "closed", "completed", "complete"},
		"cancelled": {"cancelled", "canceled", "dropped"},
	}
}

// DefaultPriorities returns the built-in priority vocabulary.
func DefaultPriorities() KeywordSet {
	return KeywordSet{
		"high": {"high", "hi", "h", "1"},
		"med":  {"med", "medium", "normal", "m", "2"},
		"low":  {"low", "lo", "l", "3"},
		"none": {"none", "no", "0"},
	}
}
