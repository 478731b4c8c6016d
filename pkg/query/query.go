// Package query turns raw request parameters into an immutable, store-agnostic
// query descriptor. Each builder stage consumes the incoming parameter map and
// returns a new descriptor value; nothing here touches the database. Execution
// is a separate, explicit step owned by the infrastructure layer.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Comparison operators understood by the filter stage. Anything else found in
// a bracketed key is passed through unaltered; the executor decides what to do
// with operators it does not support.
const (
	OpEq  = "eq"
	OpGte = "gte"
	OpGt  = "gt"
	OpLte = "lte"
	OpLt  = "lt"
)

// reserved parameter names consumed by the non-filter stages
var reserved = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// Condition is a single field comparison.
type Condition struct {
	Field string
	Op    string
	Value string
}

// SortField is one sort key; earlier entries win, later ones break ties.
type SortField struct {
	Field string
	Desc  bool
}

// Descriptor is the immutable result of the builder stages.
// The zero value means "everything, store order, all fields, no paging".
type Descriptor struct {
	Conditions []Condition
	Sort       []SortField
	Fields     []string
	Skip       int
	Take       int
}

// Parse applies all four stages in the conventional order.
func Parse(params url.Values) Descriptor {
	return Descriptor{}.
		Filter(params).
		SortBy(params).
		Select(params).
		Paginate(params)
}

// Filter consumes every non-reserved parameter. A plain key is an equality
// test; a key of the form field[op] is a comparison. Repeated keys yield one
// condition per value, all of which must hold.
func (d Descriptor) Filter(params url.Values) Descriptor {
	out := d
	out.Conditions = append([]Condition(nil), d.Conditions...)
	for key, values := range params {
		if reserved[key] {
			continue
		}
		field, op := splitFilterKey(key)
		if field == "" {
			continue
		}
		for _, v := range values {
			out.Conditions = append(out.Conditions, Condition{Field: field, Op: op, Value: v})
		}
	}
	return out
}

// splitFilterKey breaks "price[gte]" into ("price", "gte") and a plain
// "price" into ("price", OpEq).
func splitFilterKey(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

// SortBy reads the comma-separated sort parameter; a leading '-' means
// descending. With no sort parameter the descriptor orders by descending
// creation time.
func (d Descriptor) SortBy(params url.Values) Descriptor {
	out := d
	raw := params.Get("sort")
	if raw == "" {
		out.Sort = []SortField{{Field: "created_at", Desc: true}}
		return out
	}
	out.Sort = nil
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			out.Sort = append(out.Sort, SortField{Field: part[1:], Desc: true})
		} else {
			out.Sort = append(out.Sort, SortField{Field: part})
		}
	}
	return out
}

// Select reads the comma-separated fields parameter as a projection
// allow-list. An empty parameter keeps Fields nil, which executors treat as
// "all public fields".
func (d Descriptor) Select(params url.Values) Descriptor {
	out := d
	raw := params.Get("fields")
	if raw == "" {
		return out
	}
	out.Fields = nil
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// Paginate combines page (>=1, default 1) and limit (default 100) into a
// skip/take pair. Pages past the end of the result set are not an error;
// they simply come back empty.
func (d Descriptor) Paginate(params url.Values) Descriptor {
	out := d
	page := positiveInt(params.Get("page"), DefaultPage)
	limit := positiveInt(params.Get("limit"), DefaultLimit)
	out.Skip = (page - 1) * limit
	out.Take = limit
	return out
}

func positiveInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
