package query

import (
	"errors"
	"testing"
	"time"

	"github.com/boolean-maybe/taskq/task"
)

// All evaluation tests anchor to a fixed reference date so relative buckets
// stay deterministic. 2024-06-15 was a Saturday.
var evalRef = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func mustParse(t *testing.T, q string) Node {
	t.Helper()
	node, err := ParseQuery(q)
	if err != nil {
		t.Fatalf("ParseQuery(%q) failed: %v", q, err)
	}
	return node
}

func TestEvaluateTermsAndPhrases(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		task          *task.Task
		caseSensitive bool
		expect        bool
	}{
		{
			name:   "term matches raw text",
			query:  "bug",
			task:   &task.Task{RawText: "fix bug in parser"},
			expect: true,
		},
		{
			name:   "term matches path",
			query:  "Projects",
			task:   &task.Task{Path: "Projects/X/tasks.md"},
			expect: true,
		},
		{
			name:   "term is case-insensitive by default",
			query:  "Fix",
			task:   &task.Task{RawText: "fix bug"},
			expect: true,
		},
		{
			name:          "term respects case sensitivity",
			query:         "Fix",
			task:          &task.Task{RawText: "fix bug"},
			caseSensitive: true,
			expect:        false,
		},
		{
			name:   "phrase is an exact substring",
			query:  `"fix bug"`,
			task:   &task.Task{RawText: "must fix bug today"},
			expect: true,
		},
		{
			name:   "phrase is case-sensitive",
			query:  `"Fix bug"`,
			task:   &task.Task{RawText: "must fix bug today"},
			expect: false,
		},
		{
			name:   "no match",
			query:  "missing",
			task:   &task.Task{RawText: "fix bug", Text: "fix bug", Path: "a/b.md"},
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings(evalRef)
			s.CaseSensitive = tt.caseSensitive
			got, err := Evaluate(mustParse(t, tt.query), tt.task, s)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got != tt.expect {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.query, got, tt.expect)
			}
		})
	}
}

func TestEvaluateBooleanOperators(t *testing.T) {
	matching := &task.Task{RawText: "#urgent fix bug", Path: "Projects/X/tasks.md"}

	tests := []struct {
		name   string
		query  string
		task   *task.Task
		expect bool
	}{
		{name: "AND all true", query: "fix bug", task: matching, expect: true},
		{name: "AND one false", query: "fix missing", task: matching, expect: false},
		{name: "OR one true", query: "missing OR bug", task: matching, expect: true},
		{name: "OR none true", query: "missing OR absent", task: matching, expect: false},
		{name: "NOT inverts", query: "NOT missing", task: matching, expect: true},
		{name: "infix NOT", query: "fix NOT missing", task: matching, expect: true},
		{name: "infix NOT excludes", query: "fix NOT bug", task: matching, expect: false},
		{name: "grouping", query: "(missing OR bug) AND fix", task: matching, expect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(mustParse(t, tt.query), tt.task, DefaultSettings(evalRef))
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got != tt.expect {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.query, got, tt.expect)
			}
		})
	}
}

func TestEvaluatePrefixFilters(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		task   *task.Task
		expect bool
	}{
		{
			name:   "tag from tag list",
			query:  "tag:urgent",
			task:   &task.Task{Tags: []string{"urgent", "home"}},
			expect: true,
		},
		{
			name:   "tag extracted from raw text",
			query:  "tag:urgent",
			task:   &task.Task{RawText: "#urgent fix bug"},
			expect: true,
		},
		{
			name:   "tag absent",
			query:  "tag:urgent",
			task:   &task.Task{RawText: "no tag here"},
			expect: false,
		},
		{
			name:   "tag substring unless quoted",
			query:  "tag:urg",
			task:   &task.Task{Tags: []string{"urgent"}},
			expect: true,
		},
		{
			name:   "quoted tag is exact",
			query:  `tag:"urg"`,
			task:   &task.Task{Tags: []string{"urgent"}},
			expect: false,
		},
		{
			name:   "path substring",
			query:  "path:Projects",
			task:   &task.Task{Path: "Projects/X/tasks.md"},
			expect: true,
		},
		{
			name:   "quoted path is exact",
			query:  `path:"Projects"`,
			task:   &task.Task{Path: "Projects/X/tasks.md"},
			expect: false,
		},
		{
			name:   "file matches the basename only",
			query:  "file:tasks.md",
			task:   &task.Task{Path: "Projects/X/tasks.md"},
			expect: true,
		},
		{
			name:   "content matches display text",
			query:  "content:parser",
			task:   &task.Task{Text: "rewrite the parser"},
			expect: true,
		},
		{
			name:   "quoted state matches exactly",
			query:  `state:"TODO"`,
			task:   &task.Task{State: "TODO"},
			expect: true,
		},
		{
			name:   "state is equality-only, no substrings",
			query:  "state:TOD",
			task:   &task.Task{State: "TODO"},
			expect: false,
		},
		{
			name:   "state synonyms normalize",
			query:  "state:open",
			task:   &task.Task{State: "TODO"},
			expect: true,
		},
		{
			name:   "priority synonyms normalize",
			query:  "priority:hi",
			task:   &task.Task{Priority: task.PriorityHigh},
			expect: true,
		},
		{
			name:   "unset priority is none",
			query:  "priority:none",
			task:   &task.Task{},
			expect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(mustParse(t, tt.query), tt.task, DefaultSettings(evalRef))
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got != tt.expect {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.query, got, tt.expect)
			}
		})
	}
}

func TestEvaluateDateFilters(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		task   *task.Task
		expect bool
	}{
		{
			name:   "exact scheduled day",
			query:  "scheduled:2024-06-15",
			task:   &task.Task{ScheduledDate: date(2024, time.June, 15)},
			expect: true,
		},
		{
			name:   "month precision covers the whole month",
			query:  "scheduled:2024-06",
			task:   &task.Task{ScheduledDate: date(2024, time.June, 28)},
			expect: true,
		},
		{
			name:   "overdue is strictly before today",
			query:  "deadline:overdue",
			task:   &task.Task{DeadlineDate: date(2024, time.June, 14)},
			expect: true,
		},
		{
			name:   "due today is not overdue",
			query:  "deadline:overdue",
			task:   &task.Task{DeadlineDate: date(2024, time.June, 15)},
			expect: false,
		},
		{
			name:   "none matches a missing date",
			query:  "scheduled:none",
			task:   &task.Task{},
			expect: true,
		},
		{
			name:   "none does not match a set date",
			query:  "scheduled:none",
			task:   &task.Task{ScheduledDate: date(2024, time.June, 15)},
			expect: false,
		},
		{
			name:   "range includes the literal end day",
			query:  "scheduled:2024-01-01..2024-01-31",
			task:   &task.Task{ScheduledDate: date(2024, time.January, 31)},
			expect: true,
		},
		{
			name:   "range excludes the day after",
			query:  "scheduled:2024-01-01..2024-01-31",
			task:   &task.Task{ScheduledDate: date(2024, time.February, 1)},
			expect: false,
		},
		{
			name:   ">= includes the named day",
			query:  "deadline:>=2024-06-15",
			task:   &task.Task{DeadlineDate: date(2024, time.June, 15)},
			expect: true,
		},
		{
			name:   ">= rejects earlier days",
			query:  "deadline:>=2024-06-15",
			task:   &task.Task{DeadlineDate: date(2024, time.June, 14)},
			expect: false,
		},
		{
			name:   "quoted natural-language date",
			query:  `scheduled:"next friday"`,
			task:   &task.Task{ScheduledDate: date(2024, time.June, 21)},
			expect: true,
		},
		{
			name:   "unquoted natural language stays unparsed",
			query:  "scheduled:friday",
			task:   &task.Task{ScheduledDate: date(2024, time.June, 21)},
			expect: false,
		},
		{
			name:   "malformed date is no match, not an error",
			query:  "scheduled:garbage",
			task:   &task.Task{ScheduledDate: date(2024, time.June, 15)},
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(mustParse(t, tt.query), tt.task, DefaultSettings(evalRef))
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got != tt.expect {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.query, got, tt.expect)
			}
		})
	}
}

func TestEvaluatePropertyFilters(t *testing.T) {
	record := &task.Task{
		Properties: map[string]string{
			"status": "active",
			"due":    "2024-06-20",
		},
	}

	tests := []struct {
		name   string
		query  string
		expect bool
	}{
		{name: "key presence", query: "[status]", expect: true},
		{name: "missing key", query: "[owner]", expect: false},
		{name: "key and value", query: "[status:active]", expect: true},
		{name: "value substring", query: "[status:act]", expect: true},
		{name: "quoted value is exact", query: `[status:"act"]`, expect: false},
		{name: "wrong value", query: "[status:archived]", expect: false},
		{name: "date comparison on property", query: "[due:>=2024-06-15]", expect: true},
		{name: "date comparison excludes", query: "[due:>2024-06-20]", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(mustParse(t, tt.query), record, DefaultSettings(evalRef))
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got != tt.expect {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.query, got, tt.expect)
			}
		})
	}
}

func TestEvaluateUnknownFieldPolicy(t *testing.T) {
	record := &task.Task{RawText: "#urgent fix bug"}

	// Lenient by default: the bad filter contributes false, the rest of the
	// expression still evaluates.
	lenient := DefaultSettings(evalRef)
	got, err := Evaluate(mustParse(t, "bogus:x OR tag:urgent"), record, lenient)
	if err != nil {
		t.Fatalf("lenient evaluation failed: %v", err)
	}
	if !got {
		t.Errorf("lenient evaluation = false, want true (tag:urgent matches)")
	}

	// Strict mode surfaces the evaluation error for query-building UIs.
	strict := DefaultSettings(evalRef)
	strict.StrictFields = true
	_, err = Evaluate(mustParse(t, "bogus:x OR tag:urgent"), record, strict)
	if err == nil {
		t.Fatal("strict evaluation succeeded, want *EvaluationError")
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("strict evaluation returned %T, want *EvaluationError", err)
	}
	if evalErr.Field != "bogus" {
		t.Errorf("error names field %q, want bogus", evalErr.Field)
	}
}

func TestEvaluateFullQuery(t *testing.T) {
	q := `path:"Projects/X" tag:urgent (scheduled:2024-01-01..2024-01-31 OR deadline:overdue) NOT done`
	node := mustParse(t, q)
	s := DefaultSettings(evalRef)

	hit := &task.Task{
		Path:          "Projects/X",
		RawText:       "#urgent ship the demo",
		ScheduledDate: date(2024, time.January, 15),
	}
	if got, _ := Evaluate(node, hit, s); !got {
		t.Errorf("expected %q to match %+v", q, hit)
	}

	miss := &task.Task{
		Path:          "Projects/X",
		RawText:       "#urgent ship the demo, almost done",
		ScheduledDate: date(2024, time.January, 15),
	}
	if got, _ := Evaluate(node, miss, s); got {
		t.Errorf("expected NOT done to exclude %+v", miss)
	}
}
