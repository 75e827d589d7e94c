package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boolean-maybe/taskq/query/dates"
	"github.com/boolean-maybe/taskq/task"
)

// Settings carries everything evaluation depends on besides the record
// itself. Reference replaces the wall clock for all date arithmetic.
// Callers must treat a Settings value as immutable while evaluations that
// share it are in flight.
type Settings struct {
	CaseSensitive bool
	StrictFields  bool
	Reference     time.Time
	WeekStart     time.Weekday
	States        task.KeywordSet
	Priorities    task.KeywordSet
}

// DefaultSettings returns evaluation settings with the built-in keyword
// vocabularies, a Monday week start and the given reference time.
func DefaultSettings(ref time.Time) Settings {
	return Settings{
		Reference:  ref,
		WeekStart:  time.Monday,
		States:     task.DefaultStates(),
		Priorities: task.DefaultPriorities(),
	}
}

// Evaluate applies a parsed query to one task record. Unknown filter fields
// are evaluation errors; unless Settings.StrictFields is set they degrade to
// "does not match" so one bad filter doesn't sink the whole query.
func Evaluate(n Node, t *task.Task, s Settings) (bool, error) {
	return evalNode(n, t, s)
}

// evalNode wraps a node's Evaluate with the lenient-field policy. The
// policy applies per node, so a failing filter inside a boolean expression
// only zeroes out its own subtree.
func evalNode(n Node, t *task.Task, s Settings) (bool, error) {
	ok, err := n.Evaluate(t, s)
	if err != nil {
		var evalErr *EvaluationError
		if !s.StrictFields && errors.As(err, &evalErr) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// searchSurface is the set of fields a bare term or phrase matches against.
func searchSurface(t *task.Task) [4]string {
	return [4]string{t.RawText, t.Text, t.Path, t.FileName()}
}

func (n *Term) Evaluate(t *task.Task, s Settings) (bool, error) {
	for _, hay := range searchSurface(t) {
		if containsFold(hay, n.Value, s.CaseSensitive) {
			return true, nil
		}
	}
	return false, nil
}

// Phrases are exact literals: always a case-sensitive substring match,
// regardless of the case-sensitivity setting.
func (n *Phrase) Evaluate(t *task.Task, _ Settings) (bool, error) {
	for _, hay := range searchSurface(t) {
		if strings.Contains(hay, n.Value) {
			return true, nil
		}
	}
	return false, nil
}

func (n *And) Evaluate(t *task.Task, s Settings) (bool, error) {
	if len(n.Children) == 0 {
		return false, fmt.Errorf("and node at position %d has no children", n.Pos)
	}
	for _, child := range n.Children {
		ok, err := evalNode(child, t, s)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (n *Or) Evaluate(t *task.Task, s Settings) (bool, error) {
	if len(n.Children) == 0 {
		return false, fmt.Errorf("or node at position %d has no children", n.Pos)
	}
	for _, child := range n.Children {
		ok, err := evalNode(child, t, s)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (n *Not) Evaluate(t *task.Task, s Settings) (bool, error) {
	ok, err := evalNode(n.Child, t, s)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (n *PrefixFilter) Evaluate(t *task.Task, s Settings) (bool, error) {
	switch n.Field {
	case "path":
		return n.textMatch(t.Path, s), nil

	case "file":
		return n.textMatch(t.FileName(), s), nil

	case "content":
		hay := t.Text
		if hay == "" {
			hay = t.RawText
		}
		return n.textMatch(hay, s), nil

	case "tag":
		needle := strings.TrimPrefix(n.Value, "#")
		for _, tag := range t.AllTags() {
			if n.Exact {
				if equalsFold(tag, needle, s.CaseSensitive) {
					return true, nil
				}
			} else if containsFold(tag, needle, s.CaseSensitive) {
				return true, nil
			}
		}
		return false, nil

	case "state":
		// Equality only: state:TOD never matches TODO. A quoted value
		// skips synonym normalization and compares the literal keyword.
		if n.Exact {
			return equalsFold(t.State, n.Value, s.CaseSensitive), nil
		}
		return s.States.Canonical(t.State) == s.States.Canonical(n.Value), nil

	case "priority":
		recorded := string(t.Priority)
		if recorded == "" {
			recorded = string(task.PriorityNone)
		}
		if n.Exact {
			return equalsFold(recorded, n.Value, s.CaseSensitive), nil
		}
		return s.Priorities.Canonical(recorded) == s.Priorities.Canonical(n.Value), nil

	case "scheduled":
		return n.dateMatch(t.ScheduledDate, s), nil

	case "deadline":
		return n.dateMatch(t.DeadlineDate, s), nil

	default:
		return false, &EvaluationError{
			Field:    n.Field,
			Position: n.Pos,
			Message:  fmt.Sprintf("unknown filter field %q", n.Field),
		}
	}
}

func (n *PrefixFilter) textMatch(hay string, s Settings) bool {
	if n.Exact {
		return equalsFold(hay, n.Value, s.CaseSensitive)
	}
	return containsFold(hay, n.Value, s.CaseSensitive)
}

// dateMatch resolves the filter value through the date parser and tests the
// record's date. A malformed value means "no match", never an error: the
// user may be mid-keystroke.
func (n *PrefixFilter) dateMatch(d *time.Time, s Settings) bool {
	op, rest := dates.SplitOperator(n.Value)
	var v *dates.Value
	if n.Exact {
		v = dates.ParseNatural(rest, s.Reference, s.WeekStart)
	} else {
		v = dates.ParseValue(rest, s.Reference, s.WeekStart)
	}
	if v == nil {
		return false
	}
	if op == "" {
		return v.Matches(d)
	}
	if d == nil {
		return false
	}
	return v.Compare(op, *d)
}

func (n *PropertyFilter) Evaluate(t *task.Task, s Settings) (bool, error) {
	stored, ok := t.Property(n.Key)
	if !ok {
		return false, nil
	}
	if n.Value == "" {
		return true, nil
	}

	op, rest := dates.SplitOperator(n.Value)
	if op != "" {
		// Comparison operators apply to date-valued properties only.
		want := dates.ParseValue(rest, s.Reference, s.WeekStart)
		have := dates.ParseValue(stored, s.Reference, s.WeekStart)
		if want == nil || have == nil || have.Date.IsZero() {
			return false, nil
		}
		return want.Compare(op, have.Date), nil
	}

	if n.Exact {
		return equalsFold(stored, n.Value, s.CaseSensitive), nil
	}
	return containsFold(stored, n.Value, s.CaseSensitive), nil
}

func (n *RangeFilter) Evaluate(t *task.Task, s Settings) (bool, error) {
	from := dates.ParseValue(n.Start, s.Reference, s.WeekStart)
	to := dates.ParseValue(n.End, s.Reference, s.WeekStart)
	if from == nil || to == nil || from.None || to.None {
		return false, nil
	}
	interval := dates.Value{Start: from.Start, End: to.End}

	var d *time.Time
	switch n.Field {
	case "scheduled":
		d = t.ScheduledDate
	case "deadline":
		d = t.DeadlineDate
	default:
		return false, &EvaluationError{
			Field:    n.Field,
			Position: n.Pos,
			Message:  fmt.Sprintf("unknown range field %q", n.Field),
		}
	}
	return interval.Matches(d), nil
}

func containsFold(hay, needle string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(hay, needle)
	}
	return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
}

func equalsFold(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}
