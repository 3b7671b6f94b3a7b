// Package grid holds the in-memory, editable representation of one table:
// typed columns, tagged-variant cell values, and the row/column mutation
// commands the dashboard exposes.
package grid

import (
	"fmt"
	"strconv"
	"time"
)

// Kind is the declared input/display type of a column. It drives rendering
// and coercion only; the storage layer maps it to a native column type.
type Kind string

const (
	KindText  Kind = "text"
	KindInt   Kind = "integer"
	KindFloat Kind = "float"
	KindDate  Kind = "date"
)

// ParseKind normalizes user-facing kind names (the column-management form
// offers string/integer/float/datetime) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "text", "string", "varchar":
		return KindText, nil
	case "integer", "int":
		return KindInt, nil
	case "float", "real", "double":
		return KindFloat, nil
	case "date", "datetime", "timestamp":
		return KindDate, nil
	default:
		return "", fmt.Errorf("unknown column kind %q", s)
	}
}

// Zero returns the kind's default cell value: empty string, 0, 0.0,
// or a null date.
func (k Kind) Zero() Value {
	switch k {
	case KindInt:
		return Int(0)
	case KindFloat:
		return Float(0)
	case KindDate:
		return Null(KindDate)
	default:
		return Text("")
	}
}

// Value is a tagged-variant cell. Exactly one of the typed fields is
// meaningful, selected by Kind; IsNull overrides all of them.
type Value struct {
	Kind   Kind
	IsNull bool
	Str    string
	Int    int64
	Float  float64
	Time   time.Time
}

func Text(s string) Value    { return Value{Kind: KindText, Str: s} }
func Int(i int64) Value      { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value  { return Value{Kind: KindFloat, Float: f} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }
func Null(k Kind) Value      { return Value{Kind: k, IsNull: true} }

// String formats the value in its canonical wire form: dates as YYYY-MM-DD,
// integers in decimal, floats with minimal digits, null as "".
func (v Value) String() string {
	if v.IsNull {
		return ""
	}
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindDate:
		return v.Time.Format("2006-01-02")
	default:
		return v.Str
	}
}

// Column describes one grid column: display name, declared kind, and
// rendering hints. Options, when non-empty, make the column a single-select
// enumeration. Min/Max/Step constrain number inputs; Max == 0 means unbounded.
type Column struct {
	Name    string
	Kind    Kind
	Options []string
	Min     int
	Max     int
	Step    int
}

// Grid is one table's transient working copy for a single session.
// Rows are indexed [row][column], aligned with Columns.
type Grid struct {
	Columns []Column
	Rows    [][]Value
}

// New returns an empty grid with the given columns.
func New(columns []Column) *Grid {
	return &Grid{Columns: columns}
}

// ColumnIndex returns the position of the named column, or -1.
func (g *Grid) ColumnIndex(name string) int {
	for i, c := range g.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Clone deep-copies the grid. Save applies its pre-save transform to a
// clone so a failed write leaves the caller's grid untouched.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		Columns: make([]Column, len(g.Columns)),
		Rows:    make([][]Value, len(g.Rows)),
	}
	copy(out.Columns, g.Columns)
	for i, row := range g.Rows {
		out.Rows[i] = make([]Value, len(row))
		copy(out.Rows[i], row)
	}
	return out
}
