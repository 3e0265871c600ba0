package backend

import (
	"net/url"
	"strconv"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

// Query builds list query strings. Empty and "all" values are omitted.
type Query struct {
	values url.Values
}

// NewQuery returns an empty Query.
func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Set adds key=value unless value is empty or "all".
func (q *Query) Set(key, value string) *Query {
	if value == "" || value == admin.AllFilter {
		return q
	}
	q.values.Set(key, value)
	return q
}

// SetInt adds key=value when value is positive.
func (q *Query) SetInt(key string, value int64) *Query {
	if value > 0 {
		q.values.Set(key, strconv.FormatInt(value, 10))
	}
	return q
}

// Page adds page and page_size after clamping them.
func (q *Query) Page(page, pageSize int) *Query {
	page, pageSize = admin.NormalizePage(page, pageSize)
	q.values.Set("page", strconv.Itoa(page))
	q.values.Set("page_size", strconv.Itoa(pageSize))
	return q
}

// Path appends the encoded query to path.
func (q *Query) Path(path string) string {
	if len(q.values) == 0 {
		return path
	}
	return path + "?" + q.values.Encode()
}
