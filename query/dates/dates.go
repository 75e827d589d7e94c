// Package dates parses the date values accepted by scheduled: and deadline:
// filters: exact dates at year, month or day precision, a..b ranges, the
// "none" sentinel, relative buckets like overdue or "next 7 days", and a
// small closed grammar of quoted natural-language phrases. Everything is
// anchored to an injected reference time so evaluation stays deterministic.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Precision records how much of a single date was written out.
type Precision int

const (
	PrecisionDay Precision = iota
	PrecisionMonth
	PrecisionYear
)

// Value is a parsed date value, resolved into a half-open calendar interval
// [Start, End). A zero Start or End means unbounded on that side, which is
// how open buckets like "overdue" are represented. None is the "none"
// sentinel and matches records that carry no date at all.
type Value struct {
	None      bool
	Date      time.Time // set for single-date values
	Precision Precision
	Start     time.Time
	End       time.Time
}

var (
	nextDaysRe = regexp.MustCompile(`^next (\d+) days?$`)
	inDaysRe   = regexp.MustCompile(`^in (\d+) days?$`)
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseValue parses an unquoted date value: exact dates, a..b ranges, the
// none sentinel and the fixed relative buckets. Returns nil when the value
// is not one of the recognized forms; callers treat that as "no match",
// never as a failure.
func ParseValue(raw string, ref time.Time, weekStart time.Weekday) *Value {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}

	if s == "none" {
		return &Value{None: true}
	}

	if v := parseBucket(s, ref, weekStart); v != nil {
		return v
	}

	if start, end, ok := strings.Cut(s, ".."); ok {
		from := parseSingle(strings.TrimSpace(start), ref.Location())
		to := parseSingle(strings.TrimSpace(end), ref.Location())
		if from == nil || to == nil {
			return nil
		}
		// Inclusive of both written days: the stored end is the day after
		// the literal end (or the end of its month/year).
		return &Value{Start: from.Start, End: to.End}
	}

	return parseSingle(s, ref.Location())
}

// ParseNatural parses everything ParseValue does plus the quoted
// natural-language phrases: weekday names, "next <weekday>", "in N days"
// and "end of month". The grammar is deliberately closed; anything else
// returns nil.
func ParseNatural(raw string, ref time.Time, weekStart time.Weekday) *Value {
	if v := ParseValue(raw, ref, weekStart); v != nil {
		return v
	}

	s := strings.ToLower(strings.TrimSpace(raw))
	today := startOfDay(ref)

	if wd, ok := weekdays[s]; ok {
		return singleDay(nextWeekday(today, wd, false))
	}
	if rest, ok := strings.CutPrefix(s, "next "); ok {
		if wd, ok := weekdays[strings.TrimSpace(rest)]; ok {
			return singleDay(nextWeekday(today, wd, true))
		}
	}
	if m := inDaysRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return singleDay(today.AddDate(0, 0, n))
	}
	if s == "end of month" {
		firstOfNext := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 1, 0)
		return singleDay(firstOfNext.AddDate(0, 0, -1))
	}

	return nil
}

// parseBucket resolves the fixed relative keywords into intervals.
func parseBucket(s string, ref time.Time, weekStart time.Weekday) *Value {
	today := startOfDay(ref)

	switch s {
	case "overdue":
		return &Value{End: today}
	case "due":
		return &Value{End: today.AddDate(0, 0, 1)}
	case "today":
		return &Value{Start: today, End: today.AddDate(0, 0, 1)}
	case "tomorrow":
		t := today.AddDate(0, 0, 1)
		return &Value{Start: t, End: t.AddDate(0, 0, 1)}
	case "this week":
		start := startOfWeek(ref, weekStart)
		return &Value{Start: start, End: start.AddDate(0, 0, 7)}
	case "next week":
		start := startOfWeek(ref, weekStart).AddDate(0, 0, 7)
		return &Value{Start: start, End: start.AddDate(0, 0, 7)}
	case "this month":
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return &Value{Start: start, End: start.AddDate(0, 1, 0)}
	case "next month":
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 1, 0)
		return &Value{Start: start, End: start.AddDate(0, 1, 0)}
	}

	if m := nextDaysRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return &Value{Start: today, End: today.AddDate(0, 0, n)}
	}

	return nil
}

// parseSingle parses an exact date at day, month or year precision.
func parseSingle(s string, loc *time.Location) *Value {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return &Value{Date: t, Precision: PrecisionDay, Start: t, End: t.AddDate(0, 0, 1)}
	}
	if t, err := time.ParseInLocation("2006-01", s, loc); err == nil {
		return &Value{Date: t, Precision: PrecisionMonth, Start: t, End: t.AddDate(0, 1, 0)}
	}
	if len(s) == 4 {
		if t, err := time.ParseInLocation("2006", s, loc); err == nil {
			return &Value{Date: t, Precision: PrecisionYear, Start: t, End: t.AddDate(1, 0, 0)}
		}
	}
	return nil
}

// Matches reports whether a record's date falls inside the value. A nil
// date only matches the none sentinel.
func (v *Value) Matches(d *time.Time) bool {
	if v.None {
		return d == nil
	}
	if d == nil {
		return false
	}
	day := startOfDay(*d)
	if !v.Start.IsZero() && day.Before(v.Start) {
		return false
	}
	if !v.End.IsZero() && !day.Before(v.End) {
		return false
	}
	return true
}

// Compare applies a comparison operator at day precision. >= and <= include
// the value's own calendar days; > and < exclude them entirely.
func (v *Value) Compare(op string, d time.Time) bool {
	day := startOfDay(d)
	switch op {
	case ">=":
		return !day.Before(v.Start)
	case ">":
		return !day.Before(v.End)
	case "<":
		return day.Before(v.Start)
	case "<=":
		return day.Before(v.End)
	default:
		return false
	}
}

// SplitOperator strips a leading comparison operator from a raw filter
// value, returning the operator (or "") and the remainder.
func SplitOperator(raw string) (op, rest string) {
	s := strings.TrimSpace(raw)
	for _, candidate := range []string{">=", "<=", ">", "<"} {
		if strings.HasPrefix(s, candidate) {
			return candidate, strings.TrimSpace(s[len(candidate):])
		}
	}
	return "", s
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent weekStart day on or before ref.
func startOfWeek(ref time.Time, weekStart time.Weekday) time.Time {
	day := startOfDay(ref)
	diff := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -diff)
}

// nextWeekday returns the next occurrence of wd. With strict set, a match
// on the reference day itself is skipped to the following week.
func nextWeekday(today time.Time, wd time.Weekday, strict bool) time.Time {
	diff := (int(wd) - int(today.Weekday()) + 7) % 7
	if diff == 0 && strict {
		diff = 7
	}
	return today.AddDate(0, 0, diff)
}

func singleDay(t time.Time) *Value {
	return &Value{Date: t, Precision: PrecisionDay, Start: t, End: t.AddDate(0, 0, 1)}
}
