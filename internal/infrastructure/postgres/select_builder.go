package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tourhub/tourhub-api/pkg/query"
)

// Table maps a query descriptor onto one table. Columns is the allow-list:
// external field name -> column. Anything not in it cannot be filtered,
// sorted or projected, which keeps identifiers out of reach of request
// parameters. Public is the projection used when the descriptor requests no
// explicit fields; it is where hidden columns (password hashes, reset
// digests) stay hidden.
type Table struct {
	Name    string
	Columns map[string]string
	Public  []string
}

// BuildSelect renders a descriptor into a parameterized SELECT. extra
// conditions are ANDed in front of the descriptor's own (used for fixed
// scoping such as tour_id = $1 or active = true). Filter and sort fields
// outside the allow-list are dropped; an operator the store does not
// support is an error.
func BuildSelect(t Table, d query.Descriptor, extra ...query.Condition) (string, []interface{}, error) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(t.projection(d.Fields), ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(t.Name)

	conds := make([]query.Condition, 0, len(extra)+len(d.Conditions))
	conds = append(conds, extra...)
	conds = append(conds, d.Conditions...)

	first := true
	for _, c := range conds {
		col, ok := t.Columns[c.Field]
		if !ok {
			continue
		}
		op, err := sqlOp(c.Op)
		if err != nil {
			return "", nil, err
		}
		if first {
			sb.WriteString(" WHERE ")
			first = false
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, typedValue(c.Value))
		fmt.Fprintf(&sb, "%s %s $%d", col, op, len(args))
	}

	var orders []string
	for _, s := range d.Sort {
		col, ok := t.Columns[s.Field]
		if !ok {
			continue
		}
		if s.Desc {
			orders = append(orders, col+" DESC")
		} else {
			orders = append(orders, col+" ASC")
		}
	}
	if len(orders) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orders, ", "))
	}

	if d.Take > 0 {
		fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", d.Take, d.Skip)
	}

	return sb.String(), args, nil
}

// projection resolves the requested field names against the allow-list,
// falling back to the table's public columns. id is always included so
// results stay addressable.
func (t Table) projection(fields []string) []string {
	if len(fields) == 0 {
		return t.Public
	}
	cols := make([]string, 0, len(fields)+1)
	seen := map[string]bool{}
	add := func(col string) {
		if !seen[col] {
			seen[col] = true
			cols = append(cols, col)
		}
	}
	add("id")
	for _, f := range fields {
		if col, ok := t.Columns[f]; ok {
			add(col)
		}
	}
	return cols
}

func sqlOp(op string) (string, error) {
	switch op {
	case query.OpEq:
		return "=", nil
	case query.OpGte:
		return ">=", nil
	case query.OpGt:
		return ">", nil
	case query.OpLte:
		return "<=", nil
	case query.OpLt:
		return "<", nil
	default:
		return "", fmt.Errorf("unsupported filter operator %q", op)
	}
}

// typedValue converts a raw parameter string into the Go type pgx should
// bind. Numeric-looking and boolean values are converted so comparisons
// against numeric/bool columns work; everything else stays text.
func typedValue(raw string) interface{} {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
