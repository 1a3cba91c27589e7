package search

import (
	"strconv"
	"strings"

	"github.com/nightlife/listings/internal/domain"
	"github.com/nightlife/listings/internal/domain/bucket"
	"github.com/nightlife/listings/internal/domain/schedule"
	"github.com/nightlife/listings/internal/domain/search/filter"
	"github.com/nightlife/listings/internal/domain/search/plan"
	"github.com/nightlife/listings/internal/domain/search/predicate"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
)

// NoneSelector selects documents where an alternative-valued field is absent.
const NoneSelector = "none"

// BouncersFacility is the facility tag excluded by noBouncers.
const BouncersFacility = "bouncers"

// scheduleFilters maps each time parameter to the schedule it is checked against.
var scheduleFilters = []struct {
	param  string
	family schedule.Family
}{
	{filter.ParamOpenAt, schedule.OpeningHours},
	{filter.ParamKitchenOpenAt, schedule.KitchenHours},
	{filter.ParamTerraceOpenAt, schedule.TerraceHours},
	{filter.ParamBusyAt, schedule.BusyFrom},
	{filter.ParamDancingAt, schedule.DancingFrom},
	{filter.ParamBitesAt, schedule.BitesUntil},
}

var venueSetFields = []struct {
	param string
	field string
}{
	{filter.ParamCategories, domvenue.FieldCategories},
	{filter.ParamMusicTypes, domvenue.FieldMusicTypes},
	{filter.ParamVisitorTypes, domvenue.FieldVisitorTypes},
	{filter.ParamPaymentMethods, domvenue.FieldPaymentMethods},
}

// buildVenuePredicate compiles a venue filter spec into one predicate. The
// first failing filter aborts the build; no partial predicate escapes.
func buildVenuePredicate(spec filter.Spec, buckets BucketLookup) (*predicate.Node, error) {
	var conj []*predicate.Node
	add := func(n *predicate.Node) { conj = append(conj, n) }

	add(idFilters(spec))
	add(locationFilters(spec, domvenue.FieldCountry, domvenue.FieldCity))

	for _, f := range venueSetFields {
		if vals, ok := spec.Set(f.param); ok {
			add(predicate.In(f.field, vals))
		}
	}
	if tag, ok := spec.String(filter.ParamTag); ok {
		add(predicate.Equals(domvenue.FieldTags, tag))
	}
	if has, ok := spec.Bool(filter.ParamHasFacebookID); ok {
		add(predicate.Exists(domvenue.FieldFacebookID, has))
	}

	add(alternatives(spec, filter.ParamDoorPolicy, domvenue.FieldDoorPolicy))
	add(alternatives(spec, filter.ParamDresscode, domvenue.FieldDresscode))

	capacity, err := capacityFilter(spec, buckets)
	if err != nil {
		return nil, err
	}
	add(capacity)

	price, err := priceClassFilter(spec, buckets)
	if err != nil {
		return nil, err
	}
	add(price)

	fee, err := entranceFeeFilter(spec, buckets)
	if err != nil {
		return nil, err
	}
	add(fee)

	if spec.True(filter.ParamNoEntranceFee) {
		add(predicate.Or(
			predicate.Equals(domvenue.FieldEntranceFee, 0.0),
			predicate.Exists(domvenue.FieldEntranceFee, false),
		))
	}
	if spec.True(filter.ParamNoBouncers) {
		add(predicate.NotIn(domvenue.FieldFacilities, []string{BouncersFacility}))
	}

	var facilities []string
	for _, p := range filter.FacilityParams {
		if spec.True(p) {
			facilities = append(facilities, filter.FacilityTags[p])
		}
	}
	if len(facilities) > 0 {
		add(predicate.All(domvenue.FieldFacilities, facilities))
	}

	for _, sf := range scheduleFilters {
		if t, ok := spec.Time(sf.param); ok {
			add(scheduleWindow(sf.family, schedule.Resolve(t)))
		}
	}

	if text, ok := spec.Text(); ok {
		add(predicate.TextMatch(domvenue.FieldNormalizedName, text))
	}

	return predicate.And(conj...), nil
}

// idFilters covers ids and excludeIds, shared by every resource.
func idFilters(spec filter.Spec) *predicate.Node {
	var conj []*predicate.Node
	if ids, ok := spec.IDs(filter.ParamIDs); ok {
		conj = append(conj, predicate.In(plan.IDField, ids))
	}
	if ids, ok := spec.IDs(filter.ParamExcludeIDs); ok {
		conj = append(conj, predicate.NotIn(plan.IDField, ids))
	}
	return predicate.And(conj...)
}

func locationFilters(spec filter.Spec, countryField, cityField string) *predicate.Node {
	var conj []*predicate.Node
	if country, ok := spec.String(filter.ParamCountry); ok {
		conj = append(conj, predicate.Equals(countryField, country))
	}
	if city, ok := spec.String(filter.ParamCity); ok {
		conj = append(conj, predicate.Equals(cityField, city))
	}
	return predicate.And(conj...)
}

// alternatives turns the selected values of a door-policy style filter into
// one OR group; the none selector matches documents without the field.
func alternatives(spec filter.Spec, param, field string) *predicate.Node {
	vals, ok := spec.Set(param)
	if !ok {
		return nil
	}
	var disj []*predicate.Node
	for _, v := range vals {
		if strings.EqualFold(v, NoneSelector) {
			disj = append(disj, predicate.Exists(field, false))
			continue
		}
		disj = append(disj, predicate.Equals(field, v))
	}
	return predicate.Or(disj...)
}

// scheduleWindow requires lower <= s and upper > s. Schedule fields hold
// whole seconds, so both bounds are expressed as half-open ranges at s+1.
func scheduleWindow(f schedule.Family, w schedule.TimeWindow) *predicate.Node {
	lower, upper := f.Bounds(w.WeekdayKey)
	next := float64(w.SecondsSinceMidnight + 1)
	return predicate.And(
		predicate.Range(lower, nil, next),
		predicate.Range(upper, next, nil),
	)
}

func capacityFilter(spec filter.Spec, buckets BucketLookup) (*predicate.Node, error) {
	vals, ok := spec.Set(filter.ParamCapacity)
	if !ok {
		return nil, nil
	}
	breakpoints := buckets.Capacity()
	var disj []*predicate.Node
	for _, v := range vals {
		f, err := parseSelector(filter.ParamCapacity, v)
		if err != nil {
			return nil, err
		}
		r, ok := bucket.CapacityRange(breakpoints, f)
		if !ok {
			return nil, domain.InvalidArgument(domain.TypeInvalidBucket, "capacity: no bucket contains %v", v)
		}
		disj = append(disj, rangeNode(domvenue.FieldCapacity, r))
	}
	return predicate.Or(disj...), nil
}

func entranceFeeFilter(spec filter.Spec, buckets BucketLookup) (*predicate.Node, error) {
	vals, ok := spec.Set(filter.ParamEntranceFee)
	if !ok {
		return nil, nil
	}
	table, err := cityTable(spec, buckets, filter.ParamEntranceFee)
	if err != nil {
		return nil, err
	}
	var disj []*predicate.Node
	for _, v := range vals {
		f, err := parseSelector(filter.ParamEntranceFee, v)
		if err != nil {
			return nil, err
		}
		r, ok := bucket.EntranceFeeRange(table, f)
		if !ok {
			return nil, domain.InvalidArgument(domain.TypeInvalidBucket, "entranceFee: no bucket contains %v", v)
		}
		disj = append(disj, rangeNode(domvenue.FieldEntranceFee, r))
	}
	return predicate.Or(disj...), nil
}

// priceClassFilter selects venues whose combined class, the higher of the
// coke and beer classes, is one of the requested classes.
func priceClassFilter(spec filter.Spec, buckets BucketLookup) (*predicate.Node, error) {
	vals, ok := spec.Set(filter.ParamPriceClass)
	if !ok {
		return nil, nil
	}
	table, err := cityTable(spec, buckets, filter.ParamPriceClass)
	if err != nil {
		return nil, err
	}
	var disj []*predicate.Node
	for _, v := range vals {
		class, err := strconv.Atoi(v)
		if err != nil || class < 0 || class >= table.PriceClasses() {
			return nil, domain.InvalidArgument(domain.TypeInvalidBucket,
				"priceClass: %q is not a class between 0 and %d", v, table.PriceClasses()-1)
		}
		disj = append(disj,
			classBranch(table.CokePrices, table.BeerPrices, domvenue.FieldCokePrice, domvenue.FieldBeerPrice, class),
			classBranch(table.BeerPrices, table.CokePrices, domvenue.FieldBeerPrice, domvenue.FieldCokePrice, class),
		)
	}
	return predicate.Or(disj...), nil
}

// classBranch matches documents whose primary price falls in class and whose
// other price is absent or in a class no higher.
func classBranch(primaryBP, otherBP []float64, primary, other string, class int) *predicate.Node {
	r, ok := bucket.ClassInterval(primaryBP, class)
	if !ok {
		return nil
	}
	otherRange, ok := bucket.ClassInterval(otherBP, class)
	if !ok || otherRange.IsOpen() {
		return rangeNode(primary, r)
	}
	return predicate.And(
		rangeNode(primary, r),
		predicate.Or(
			predicate.Range(other, nil, *otherRange.High),
			predicate.Exists(other, false),
		),
	)
}

// cityTable enforces that bucket filters depending on city prices name a
// configured city.
func cityTable(spec filter.Spec, buckets BucketLookup, param string) (bucket.Table, error) {
	country, okCountry := spec.String(filter.ParamCountry)
	city, okCity := spec.String(filter.ParamCity)
	if !okCountry || !okCity {
		return bucket.Table{}, domain.PreconditionFailed(domain.TypeMissingCity,
			"%s filter requires country and city", param)
	}
	return buckets.Get(country, city)
}

func parseSelector(param, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, domain.InvalidArgument(domain.TypeInvalidBucket, "%s: invalid selector %q", param, v)
	}
	return f, nil
}

func rangeNode(field string, r bucket.Range) *predicate.Node {
	var high any
	if r.High != nil {
		high = *r.High
	}
	return predicate.Range(field, r.Low, high)
}
