package schedule

import (
	"strings"

	"github.com/campuspulse/campus-events-api/internal/models"
)

// FilterConfig narrows the in-memory event list. AllTypes short-circuits the
// type predicate; when it is false an empty Types set deliberately matches
// nothing ("show nothing" is a distinct state from "show all").
type FilterConfig struct {
	AllTypes     bool
	Types        []string
	SearchTerm   string
	SelectedDate string
}

// Filter returns the subset of events matching the configuration, in the
// order they were given. The input is never mutated; the ordering
// established by the upstream fetch (date then start time) is preserved.
func Filter(events []models.Event, cfg FilterConfig) []models.Event {
	term := strings.ToLower(strings.TrimSpace(cfg.SearchTerm))

	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !matchesType(e, cfg) {
			continue
		}
		if term != "" && !matchesSearch(e, term) {
			continue
		}
		if cfg.SelectedDate != "" && e.Date != cfg.SelectedDate {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesType(e models.Event, cfg FilterConfig) bool {
	if cfg.AllTypes {
		return true
	}
	if len(cfg.Types) == 0 {
		return false
	}
	return e.EventType.ContainsAny(cfg.Types)
}

func matchesSearch(e models.Event, term string) bool {
	return strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Description), term) ||
		strings.Contains(strings.ToLower(e.Location), term)
}
