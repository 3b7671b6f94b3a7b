package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/ruslano69/sitedesk/internal/grid"
)

// QuoteIdentifier double-quotes an identifier, escaping embedded quotes.
// Required here: the timeline table name carries an upstream misspelling
// with mixed case that must match exactly.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// TypeFromKind maps a grid column kind to the PostgreSQL column type used
// when the table is recreated on save.
func TypeFromKind(k grid.Kind) string {
	switch k {
	case grid.KindInt:
		return "BIGINT"
	case grid.KindFloat:
		return "DOUBLE PRECISION"
	case grid.KindDate:
		return "DATE"
	default:
		return "TEXT"
	}
}

// KindFromPostgres maps an information_schema data_type to the nearest
// grid kind. Anything unrecognized degrades to text.
func KindFromPostgres(dataType string) grid.Kind {
	switch strings.ToLower(dataType) {
	case "smallint", "integer", "bigint":
		return grid.KindInt
	case "real", "double precision", "numeric", "decimal":
		return grid.KindFloat
	case "date", "timestamp without time zone", "timestamp with time zone":
		return grid.KindDate
	default:
		return grid.KindText
	}
}

// valueToString renders a pgx row value in the wire form the loader
// coerces from. NULL becomes the empty string.
func valueToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// valueToArg converts a grid cell into a pgx statement argument.
func valueToArg(v grid.Value) any {
	if v.IsNull {
		return nil
	}
	switch v.Kind {
	case grid.KindInt:
		return v.Int
	case grid.KindFloat:
		return v.Float
	case grid.KindDate:
		return v.Time
	default:
		return v.Str
	}
}
