package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	d := Parse(url.Values{})

	assert.Empty(t, d.Conditions)
	assert.Equal(t, []SortField{{Field: "created_at", Desc: true}}, d.Sort)
	assert.Nil(t, d.Fields)
	assert.Equal(t, 0, d.Skip)
	assert.Equal(t, DefaultLimit, d.Take)
}

func TestFilterPlainAndBracketed(t *testing.T) {
	params := url.Values{
		"difficulty":   {"easy"},
		"price[gte]":   {"500"},
		"price[lt]":    {"2000"},
		"duration[gt]": {"5"},
	}
	d := Descriptor{}.Filter(params)

	require.Len(t, d.Conditions, 4)
	assert.Contains(t, d.Conditions, Condition{Field: "difficulty", Op: OpEq, Value: "easy"})
	assert.Contains(t, d.Conditions, Condition{Field: "price", Op: OpGte, Value: "500"})
	assert.Contains(t, d.Conditions, Condition{Field: "price", Op: OpLt, Value: "2000"})
	assert.Contains(t, d.Conditions, Condition{Field: "duration", Op: OpGt, Value: "5"})
}

func TestFilterSkipsReservedKeys(t *testing.T) {
	params := url.Values{
		"page":   {"2"},
		"sort":   {"price"},
		"limit":  {"10"},
		"fields": {"name"},
		"price":  {"397"},
	}
	d := Descriptor{}.Filter(params)

	require.Len(t, d.Conditions, 1)
	assert.Equal(t, "price", d.Conditions[0].Field)
}

func TestFilterRepeatedKeysAllHold(t *testing.T) {
	params := url.Values{"price[gte]": {"100", "200"}}
	d := Descriptor{}.Filter(params)

	require.Len(t, d.Conditions, 2)
	assert.Equal(t, "100", d.Conditions[0].Value)
	assert.Equal(t, "200", d.Conditions[1].Value)
}

func TestFilterUnknownOperatorPassesThrough(t *testing.T) {
	params := url.Values{"price[regex]": {"x"}}
	d := Descriptor{}.Filter(params)

	require.Len(t, d.Conditions, 1)
	assert.Equal(t, "regex", d.Conditions[0].Op)
}

func TestSplitFilterKey(t *testing.T) {
	cases := []struct {
		key   string
		field string
		op    string
	}{
		{"price", "price", OpEq},
		{"price[gte]", "price", "gte"},
		{"price[lt]", "price", "lt"},
		{"[gte]", "", ""},
		{"price[gte", "", ""},
	}
	for _, c := range cases {
		field, op := splitFilterKey(c.key)
		assert.Equal(t, c.field, field, c.key)
		assert.Equal(t, c.op, op, c.key)
	}
}

func TestSortByParsesDirections(t *testing.T) {
	d := Descriptor{}.SortBy(url.Values{"sort": {"-ratingsAverage,price"}})

	require.Len(t, d.Sort, 2)
	assert.Equal(t, SortField{Field: "ratingsAverage", Desc: true}, d.Sort[0])
	assert.Equal(t, SortField{Field: "price", Desc: false}, d.Sort[1])
}

func TestSortByDefault(t *testing.T) {
	d := Descriptor{}.SortBy(url.Values{})
	assert.Equal(t, []SortField{{Field: "created_at", Desc: true}}, d.Sort)
}

func TestSelectSplitsAndTrims(t *testing.T) {
	d := Descriptor{}.Select(url.Values{"fields": {"name, price ,duration"}})
	assert.Equal(t, []string{"name", "price", "duration"}, d.Fields)
}

func TestPaginate(t *testing.T) {
	d := Descriptor{}.Paginate(url.Values{"page": {"3"}, "limit": {"10"}})
	assert.Equal(t, 20, d.Skip)
	assert.Equal(t, 10, d.Take)
}

func TestPaginateRejectsBadValues(t *testing.T) {
	d := Descriptor{}.Paginate(url.Values{"page": {"0"}, "limit": {"-5"}})
	assert.Equal(t, 0, d.Skip)
	assert.Equal(t, DefaultLimit, d.Take)

	d = Descriptor{}.Paginate(url.Values{"page": {"abc"}, "limit": {"xyz"}})
	assert.Equal(t, 0, d.Skip)
	assert.Equal(t, DefaultLimit, d.Take)
}

func TestStagesDoNotMutateReceiver(t *testing.T) {
	base := Descriptor{Conditions: []Condition{{Field: "price", Op: OpEq, Value: "1"}}}
	_ = base.Filter(url.Values{"duration": {"5"}})
	_ = base.SortBy(url.Values{"sort": {"price"}})
	_ = base.Paginate(url.Values{"page": {"9"}})

	assert.Len(t, base.Conditions, 1)
	assert.Nil(t, base.Sort)
	assert.Equal(t, 0, base.Skip)
	assert.Equal(t, 0, base.Take)
}

func TestParseFullPipeline(t *testing.T) {
	params := url.Values{
		"difficulty": {"easy"},
		"price[lte]": {"1000"},
		"sort":       {"price"},
		"fields":     {"name,price"},
		"page":       {"2"},
		"limit":      {"5"},
	}
	d := Parse(params)

	assert.Len(t, d.Conditions, 2)
	assert.Equal(t, []SortField{{Field: "price"}}, d.Sort)
	assert.Equal(t, []string{"name", "price"}, d.Fields)
	assert.Equal(t, 5, d.Skip)
	assert.Equal(t, 5, d.Take)
}
