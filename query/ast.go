package query

import (
	"fmt"
	"strings"

	"github.com/boolean-maybe/taskq/task"
)

// Node is one node of a parsed query. Every node remembers the source
// position of its defining token so evaluation errors can point back into
// the query string.
type Node interface {
	// Position returns the zero-based offset of the node's defining token.
	Position() int

	// Evaluate reports whether the node matches the given task record.
	Evaluate(t *task.Task, s Settings) (bool, error)
}

// Term is a bare word, matched as a substring of the default searchable
// fields (raw text, display text, path, filename).
type Term struct {
	Value string
	Pos   int
}

// Phrase is a quoted literal, matched as an exact substring.
type Phrase struct {
	Value string
	Pos   int
}

// And matches when all children match. The parser flattens conjunction
// chains, so a completed parse always has at least two children here.
type And struct {
	Children []Node
	Pos      int
}

// Or matches when any child matches.
type Or struct {
	Children []Node
	Pos      int
}

// Not inverts its single child.
type Not struct {
	Child Node
	Pos   int
}

// PrefixFilter restricts matching to one record field (path:x, tag:y).
// Exact is set when the value was quoted, forcing equality over substring
// containment. Field validity is checked at evaluation time, not here.
type PrefixFilter struct {
	Field string
	Value string
	Exact bool
	Pos   int
}

// PropertyFilter matches the record's external property bag: [key] tests key
// presence, [key:value] compares the stored value.
type PropertyFilter struct {
	Key   string
	Value string
	Exact bool
	Pos   int
}

// RangeFilter bounds a date field: scheduled:a..b or deadline:a..b.
// Start and End keep the raw literals; the evaluator resolves them into a
// half-open calendar interval.
type RangeFilter struct {
	Field string
	Start string
	End   string
	Pos   int
}

func (n *Term) Position() int           { return n.Pos }
func (n *Phrase) Position() int         { return n.Pos }
func (n *And) Position() int            { return n.Pos }
func (n *Or) Position() int             { return n.Pos }
func (n *Not) Position() int            { return n.Pos }
func (n *PrefixFilter) Position() int   { return n.Pos }
func (n *PropertyFilter) Position() int { return n.Pos }
func (n *RangeFilter) Position() int    { return n.Pos }

// String renders a canonical form of the AST, used in parser tests.
func (n *Term) String() string   { return n.Value }
func (n *Phrase) String() string { return fmt.Sprintf("%q", n.Value) }

func (n *And) String() string { return renderNary("and", n.Children) }
func (n *Or) String() string  { return renderNary("or", n.Children) }

func (n *Not) String() string { return fmt.Sprintf("not(%v)", n.Child) }

func (n *PrefixFilter) String() string {
	if n.Exact {
		return fmt.Sprintf("%s:%q", n.Field, n.Value)
	}
	return fmt.Sprintf("%s:%s", n.Field, n.Value)
}

func (n *PropertyFilter) String() string {
	if n.Value == "" {
		return fmt.Sprintf("[%s]", n.Key)
	}
	return fmt.Sprintf("[%s:%s]", n.Key, n.Value)
}

func (n *RangeFilter) String() string {
	return fmt.Sprintf("%s:%s..%s", n.Field, n.Start, n.End)
}

func renderNary(op string, children []Node) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = fmt.Sprintf("%v", c)
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}
