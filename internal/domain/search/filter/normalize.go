package filter

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/unidecode"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nightlife/listings/internal/domain"
	"github.com/nightlife/listings/internal/domain/geo"
)

// MinTextLength is the shortest free-text term that is applied as a filter.
const MinTextLength = 2

// Normalize builds a Spec from raw query parameters. Parameters outside the
// family's catalog are ignored. now resolves openNow into an explicit instant.
func Normalize(raw url.Values, family Family, now func() time.Time) (Spec, error) {
	values := collect(raw)

	// City is meaningless without its country; fail before anything else.
	if len(values[ParamCity]) > 0 && len(values[ParamCountry]) == 0 {
		return Spec{}, domain.PreconditionFailed(domain.TypeMissingCountry, "city filter requires a country")
	}

	spec := newSpec(family)
	catalog := family.catalog()

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		k, ok := catalog[name]
		if !ok {
			continue
		}
		vals := values[name]
		if len(vals) == 0 {
			continue
		}
		if err := spec.add(name, k, vals); err != nil {
			return Spec{}, err
		}
	}

	if spec.True(ParamOpenNow) {
		if _, ok := spec.times[ParamOpenAt]; !ok && now != nil {
			spec.times[ParamOpenAt] = now().UTC()
		}
	}

	if lon, ok := spec.floats[ParamLongitude]; ok {
		lat, okLat := spec.floats[ParamLatitude]
		if okLat && !geo.ValidateCoordinates(lat, lon) {
			return Spec{}, domain.InvalidArgument(domain.TypeInvalidCoordinates,
				"coordinates out of range: longitude %v, latitude %v", lon, lat)
		}
	}

	return spec, nil
}

func (s *Spec) add(name string, k kind, vals []string) error {
	if k.scalar() && len(vals) > 1 {
		return domain.InvalidArgument(domain.TypeMultipleValues,
			"%s: expected a single value, got %d", name, len(vals))
	}
	switch k {
	case kindString:
		s.strings[name] = vals[0]
	case kindSet:
		s.sets[name] = vals
	case kindText:
		if text, ok := NormalizeText(strings.Join(vals, " ")); ok {
			s.strings[name] = text
		}
	case kindIDs:
		ids := make([]primitive.ObjectID, 0, len(vals))
		for _, v := range vals {
			id, err := primitive.ObjectIDFromHex(v)
			if err != nil {
				return domain.InvalidArgument(domain.TypeInvalidID, "%s: invalid identifier %q", name, v)
			}
			ids = append(ids, id)
		}
		s.ids[name] = ids
	case kindBool:
		b, err := parseBool(vals[0])
		if err != nil {
			return domain.InvalidArgument(domain.TypeInvalidBoolean, "%s: invalid boolean %q", name, vals[0])
		}
		s.bools[name] = b
	case kindTime, kindDate:
		t, err := parseTime(vals[0], k == kindDate)
		if err != nil {
			return domain.InvalidArgument(domain.TypeInvalidTimestamp, "%s: invalid timestamp %q", name, vals[0])
		}
		s.times[name] = t
	case kindFloat:
		f, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return domain.InvalidArgument(domain.TypeInvalidCoordinates, "%s: invalid number %q", name, vals[0])
		}
		s.floats[name] = f
	}
	return nil
}

// collect merges the scalar, repeated, bracketed (k[]) and comma separated
// forms of every parameter into one trimmed, de-duplicated, sorted list.
// Country and city are lower-cased first.
// Sort keys keep their request order.
func collect(raw url.Values) map[string][]string {
	out := make(map[string][]string, len(raw))
	for key, vals := range raw {
		name := strings.TrimSuffix(key, "[]")
		if name == ParamText {
			// Free text keeps its commas and word order.
			if text := strings.TrimSpace(strings.Join(vals, " ")); text != "" {
				out[name] = []string{text}
			}
			continue
		}
		for _, v := range vals {
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if name == ParamCountry || name == ParamCity {
					// Stored location fields are lower-case.
					part = strings.ToLower(part)
				}
				if part != "" {
					out[name] = append(out[name], part)
				}
			}
		}
	}
	for name, vals := range out {
		if name == ParamText || name == ParamSort {
			continue
		}
		slices.Sort(vals)
		out[name] = slices.Compact(vals)
	}
	return out
}

// NormalizeText transliterates s to base Latin and lower-cases it. Terms
// shorter than MinTextLength after transliteration and trimming are reported
// as absent.
func NormalizeText(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(unidecode.Unidecode(s)))
	if utf8.RuneCountInString(s) < MinTextLength {
		return "", false
	}
	return s, true
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func parseTime(s string, dateOnly bool) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t.UTC(), nil
	}
	if dateOnly {
		if d, derr := time.Parse(time.DateOnly, s); derr == nil {
			return d, nil
		}
	}
	return time.Time{}, err
}
