package model

import "time"

const DateLayout = "2006-01-02"

// DateRange bounds are inclusive. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}
