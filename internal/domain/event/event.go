// Package event holds the event listing model.
package event

import "time"

// Document field paths used by filters, sorting and projection.
const (
	FieldID              = "_id"
	FieldTitle           = "title"
	FieldNormalizedTitle = "normalizedTitle"
	FieldVenue           = "venue"
	FieldArtists         = "artists"
	FieldOrganiser       = "organiser"
	FieldTags            = "tags"
	FieldFirstTag        = "tags.0"
	FieldDate            = "date"
	FieldCountry         = "location.country"
	FieldCity            = "location.city"
	FieldCreatedAt       = "createdAt"
)

// Event is a listed event.
type Event struct {
	ID          string
	Title       string
	Description string
	VenueID     string
	ArtistIDs   []string
	OrganiserID string
	Tags        []string
	Date        *time.Time
	Country     string
	City        string
}
