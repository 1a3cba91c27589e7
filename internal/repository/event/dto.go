package event

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nightlife/listings/internal/db"
	domevent "github.com/nightlife/listings/internal/domain/event"
)

type eventDTO struct {
	ID          bson.RawValue   `bson:"_id"`
	Title       string          `bson:"title,omitempty"`
	Description string          `bson:"description,omitempty"`
	Venue       bson.RawValue   `bson:"venue,omitempty"`
	Artists     []bson.RawValue `bson:"artists,omitempty"`
	Organiser   bson.RawValue   `bson:"organiser,omitempty"`
	Tags        []string        `bson:"tags,omitempty"`
	Date        *time.Time      `bson:"date,omitempty"`
	Location    *locationDTO    `bson:"location,omitempty"`
}

type locationDTO struct {
	Country string `bson:"country,omitempty"`
	City    string `bson:"city,omitempty"`
}

func (d *eventDTO) toDomain() domevent.Event {
	e := domevent.Event{
		ID:          db.IDString(d.ID),
		Title:       d.Title,
		Description: d.Description,
		VenueID:     db.IDString(d.Venue),
		OrganiserID: db.IDString(d.Organiser),
		Tags:        d.Tags,
	}
	for _, a := range d.Artists {
		e.ArtistIDs = append(e.ArtistIDs, db.IDString(a))
	}
	if d.Date != nil {
		date := d.Date.UTC()
		e.Date = &date
	}
	if d.Location != nil {
		e.Country = d.Location.Country
		e.City = d.Location.City
	}
	return e
}
