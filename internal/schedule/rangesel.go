package schedule

import "time"

// DateRange is the transient selection produced by two date clicks. End is
// nil until a second, non-restarting click completes the pair.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// RangeObserver receives the full current selection after every transition.
type RangeObserver func(DateRange)

// RangeSelector resolves a stream of date clicks into a (start, end) range:
// the first click sets the start, a second click at or after the start
// completes the range, a second click before the start restarts with the
// clicked date, and any click after a completed range begins a fresh
// selection. The machine cycles indefinitely.
type RangeSelector struct {
	current  DateRange
	observer RangeObserver
}

// NewRangeSelector builds an empty selector. The observer may be nil.
func NewRangeSelector(observer RangeObserver) *RangeSelector {
	return &RangeSelector{observer: observer}
}

// Click feeds one date click through the state machine and returns the
// resulting selection.
func (s *RangeSelector) Click(d time.Time) DateRange {
	day := Midnight(d)

	switch {
	case s.current.Start == nil:
		s.current = DateRange{Start: &day}
	case s.current.End == nil:
		if !day.Before(*s.current.Start) {
			s.current.End = &day
		} else {
			s.current = DateRange{Start: &day}
		}
	default:
		s.current = DateRange{Start: &day}
	}

	if s.observer != nil {
		s.observer(s.current)
	}
	return s.current
}

// Selection returns the current selection without mutating state.
func (s *RangeSelector) Selection() DateRange {
	return s.current
}

// Reset clears the selection back to empty.
func (s *RangeSelector) Reset() {
	s.current = DateRange{}
	if s.observer != nil {
		s.observer(s.current)
	}
}
