package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Default query values used when a Query field is left empty.
const (
	DefaultOrderBy = "popularity"
	DefaultLimit   = 30
	MaxLimit       = 100
)

// Query describes a search/listing request. The zero value lists the most
// popular games.
type Query struct {
	Name      string
	OrderBy   string
	Ascending bool
	Limit     int
	Skip      int
}

// normalized returns q with defaults applied and limits clamped.
func (q Query) normalized() Query {
	q.Name = strings.TrimSpace(q.Name)
	if q.OrderBy == "" {
		q.OrderBy = DefaultOrderBy
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	return q
}

// Values encodes the query as URL parameters, without credentials.
func (q Query) Values() url.Values {
	q = q.normalized()
	v := url.Values{}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	v.Set("order_by", q.OrderBy)
	v.Set("ascending", strconv.FormatBool(q.Ascending))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	return v
}

// Key returns a stable identifier for the query, suitable as a cache key.
func (q Query) Key() string {
	return "search?" + q.Values().Encode()
}
