package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the canonical wire and display format for dates.
const DateLayout = "2006-01-02"

// ErrInvalidRange is wrapped by every range parsing failure.
var ErrInvalidRange = errors.New("invalid date range")

// acceptedLayouts lists the date formats users may type, in priority order.
var acceptedLayouts = []string{DateLayout, "2006/01/02", "02-01-2006", "02/01/2006"}

// DateRange is an inclusive span of calendar dates. Start never exceeds End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Label renders the range as "start..end", the same text ParseDateRange accepts.
func (r DateRange) Label() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// StartString returns the start date in DateLayout.
func (r DateRange) StartString() string { return r.Start.Format(DateLayout) }

// EndString returns the end date in DateLayout.
func (r DateRange) EndString() string { return r.End.Format(DateLayout) }

// Days returns the number of calendar dates covered.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// ParseDate accepts any of the supported layouts and returns a UTC midnight date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate rewrites a parseable date into DateLayout and returns
// anything else unchanged.
func NormalizeDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return s
}

// Today returns the current local date as a UTC midnight value.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthToDate is the range from the first of now's month through now.
func MonthToDate(now time.Time) DateRange {
	today := Today(now)
	return DateRange{
		Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
		End:   today,
	}
}

// WeekToDate is the range from Monday of now's week through now.
func WeekToDate(now time.Time) DateRange {
	today := Today(now)
	offset := (int(today.Weekday()) + 6) % 7
	return DateRange{Start: today.AddDate(0, 0, -offset), End: today}
}

// InitialDateRange is the range a fresh session starts with.
func InitialDateRange() DateRange {
	return MonthToDate(time.Now())
}

// ParseDateRange parses user text relative to the current time.
func ParseDateRange(input string) (DateRange, error) {
	return ParseDateRangeAt(input, time.Now())
}

// ParseDateRangeAt parses range keywords (AUTO, AUTO-MONTH, MONTH, AUTO-WEEK,
// WEEK) or an explicit "start..end" pair.
func ParseDateRangeAt(input string, now time.Time) (DateRange, error) {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case "AUTO", "AUTO-MONTH", "MONTH":
		return MonthToDate(now), nil
	case "AUTO-WEEK", "WEEK":
		return WeekToDate(now), nil
	}

	parts := strings.Split(input, "..")
	if len(parts) != 2 {
		return DateRange{}, fmt.Errorf("%w: use YYYY-MM-DD..YYYY-MM-DD, AUTO, AUTO-WEEK or AUTO-MONTH", ErrInvalidRange)
	}
	startText := strings.TrimSpace(parts[0])
	endText := strings.TrimSpace(parts[1])

	start, ok := ParseDate(startText)
	if !ok {
		return DateRange{}, fmt.Errorf("%w: invalid start date %q", ErrInvalidRange, startText)
	}
	end, ok := ParseDate(endText)
	if !ok {
		return DateRange{}, fmt.Errorf("%w: invalid end date %q", ErrInvalidRange, endText)
	}
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			start.Format(DateLayout), end.Format(DateLayout))
	}
	return DateRange{Start: start, End: end}, nil
}

// BuildEmptyDays materializes one empty Day per date of r, newest first.
func BuildEmptyDays(r DateRange) []Day {
	return buildRangeDays(map[string][]Entry{}, r.Start, r.End)
}

// BuildDays groups raw entries into days. Project names are resolved through
// projects; every date of r is present even when it has no entries.
func BuildDays(entries []TimeEntry, projects []Project, r DateRange) []Day {
	names := make(map[int]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	grouped := make(map[string][]Entry)
	for _, te := range entries {
		date := "no-date"
		if strings.TrimSpace(te.Date) != "" {
			date = NormalizeDate(te.Date)
		}
		note := te.Description
		if strings.TrimSpace(note) == "" {
			note = "no description"
		}
		grouped[date] = append(grouped[date], Entry{
			Project: te.resolveProjectName(names),
			Hours:   float64(te.Minutes) / 60,
			Note:    note,
		})
	}

	if r.Start.IsZero() || r.End.IsZero() {
		days := make([]Day, 0, len(grouped))
		for date, list := range grouped {
			days = append(days, Day{Date: date, Entries: list})
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
		return days
	}
	return buildRangeDays(grouped, r.Start, r.End)
}

func buildRangeDays(grouped map[string][]Entry, start, end time.Time) []Day {
	var days []Day
	for cur := end; !cur.Before(start); cur = cur.AddDate(0, 0, -1) {
		key := cur.Format(DateLayout)
		entries := grouped[key]
		if entries == nil {
			entries = []Entry{}
		}
		days = append(days, Day{Date: key, Entries: entries})
	}
	return days
}
