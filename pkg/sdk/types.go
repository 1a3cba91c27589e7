package listings

import (
	"github.com/nightlife/listings/internal/domain/bucket"
	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/geo"
	"github.com/nightlife/listings/internal/domain/search/result"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
)

// Listing types shared with the search engine.
type (
	Venue       = domvenue.Venue
	Event       = domevent.Event
	Point       = geo.Point
	CityBuckets = bucket.Table
)

// VenuePage is one page of venues with the total match count.
type VenuePage = result.Page[Venue]

// EventPage is one page of events with the total match count.
type EventPage = result.Page[Event]
