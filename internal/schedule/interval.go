package schedule

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Kind tags which table an interval came from.
type Kind string

const (
	KindEvent    Kind = "event"
	KindTraining Kind = "training"
)

// Interval is a date-ranged record pulled from either source table.
type Interval struct {
	ID    uint
	Title string
	Kind  Kind
	Start time.Time
	End   time.Time
}

// ParseDate parses a YYYY-MM-DD date. An empty or malformed value is a
// validation failure the caller can report back to the client.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Overlaps reports whether the closed intervals [a1,a2] and [b1,b2] intersect.
// Boundaries are inclusive: intervals touching on a single day conflict.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return !a1.After(b2) && !a2.Before(b1)
}

// Overlaps reports whether the interval intersects [start,end].
func (iv Interval) Overlaps(start, end time.Time) bool {
	return Overlaps(iv.Start, iv.End, start, end)
}

// EffectiveEnd computes the last day of a session starting at start and
// running durationDays. Durations below one day collapse to a single day.
func EffectiveEnd(start time.Time, durationDays int) time.Time {
	if durationDays < 1 {
		return start
	}
	return start.AddDate(0, 0, durationDays-1)
}

// Window returns the calendar feed range around now: one month back,
// six months forward, both inclusive.
func Window(now time.Time) (from, to time.Time) {
	return now.AddDate(0, -1, 0), now.AddDate(0, 6, 0)
}

// SortByStart orders intervals by start date, then id, for deterministic
// conflict listings regardless of storage order.
func SortByStart(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool {
		if !ivs[i].Start.Equal(ivs[j].Start) {
			return ivs[i].Start.Before(ivs[j].Start)
		}
		return ivs[i].ID < ivs[j].ID
	})
}

// FeedItem is one entry of the aggregated calendar feed.
type FeedItem struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Kind      Kind   `json:"kind"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// FeedItem converts the interval to its wire representation.
func (iv Interval) FeedItem() FeedItem {
	return FeedItem{
		ID:        iv.ID,
		Title:     iv.Title,
		Kind:      iv.Kind,
		StartDate: iv.Start.Format(DateLayout),
		EndDate:   iv.End.Format(DateLayout),
	}
}

// MergeFeed concatenates intervals from multiple sources into one feed
// ordered by start date, then kind, then id. The result is never nil so the
// feed serializes as [] rather than null when empty.
func MergeFeed(sources ...[]Interval) []FeedItem {
	var merged []Interval
	for _, src := range sources {
		merged = append(merged, src...)
	}
	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	})
	items := make([]FeedItem, 0, len(merged))
	for _, iv := range merged {
		items = append(items, iv.FeedItem())
	}
	return items
}
