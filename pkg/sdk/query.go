package listings

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nightlife/listings/internal/domain/search/filter"
	searchuc "github.com/nightlife/listings/internal/usecase/search"
)

// Query collects listing search parameters. Parameter names and value formats
// are the ones accepted by the HTTP API; unknown names are ignored.
type Query struct {
	params url.Values
	offset int
	limit  int
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{params: url.Values{}}
}

// Set replaces the values of a parameter.
func (q *Query) Set(name string, values ...string) *Query {
	q.params[name] = append([]string(nil), values...)
	return q
}

// Country restricts results to a country.
func (q *Query) Country(country string) *Query { return q.Set(filter.ParamCountry, country) }

// City restricts results to a city. Requires Country.
func (q *Query) City(city string) *Query { return q.Set(filter.ParamCity, city) }

// Text matches words of a name or title starting with text, ignoring case and accents.
func (q *Query) Text(text string) *Query { return q.Set(filter.ParamText, text) }

// Tags ranks results by the number of matching tags.
func (q *Query) Tags(tags ...string) *Query { return q.Set(filter.ParamTags, tags...) }

// Sort sets sort keys in "field" or "field:asc|desc" form.
func (q *Query) Sort(keys ...string) *Query { return q.Set(filter.ParamSort, keys...) }

// Fields limits the returned fields.
func (q *Query) Fields(fields ...string) *Query { return q.Set(filter.ParamFields, fields...) }

// Near sets the reference point used by the "distance" sort.
func (q *Query) Near(p Point) *Query {
	q.Set(filter.ParamLongitude, strconv.FormatFloat(p.Longitude, 'f', -1, 64))
	return q.Set(filter.ParamLatitude, strconv.FormatFloat(p.Latitude, 'f', -1, 64))
}

// OpenAt keeps venues open at t.
func (q *Query) OpenAt(t time.Time) *Query {
	return q.Set(filter.ParamOpenAt, t.UTC().Format(time.RFC3339))
}

// PriceClass keeps venues in any of the given price classes. Classes are
// 0-based interval indexes into the city's price breakpoints.
func (q *Query) PriceClass(classes ...int) *Query {
	vals := make([]string, len(classes))
	for i, c := range classes {
		vals[i] = strconv.Itoa(c)
	}
	return q.Set(filter.ParamPriceClass, strings.Join(vals, ","))
}

// Offset sets the number of results to skip.
func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

// Limit sets the page size. Zero uses the default page size.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) build() (url.Values, searchuc.Page) {
	if q == nil {
		return url.Values{}, searchuc.Page{}
	}
	raw := make(url.Values, len(q.params))
	for k, v := range q.params {
		raw[k] = append([]string(nil), v...)
	}
	return raw, searchuc.Page{Offset: q.offset, Limit: q.limit}
}
