package venue

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nightlife/listings/internal/db"
	"github.com/nightlife/listings/internal/domain/geo"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
)

type venueDTO struct {
	ID             bson.RawValue       `bson:"_id"`
	Name           string              `bson:"name,omitempty"`
	Location       *locationDTO        `bson:"location,omitempty"`
	Categories     []string            `bson:"categories,omitempty"`
	MusicTypes     []string            `bson:"musicTypes,omitempty"`
	VisitorTypes   []string            `bson:"visitorTypes,omitempty"`
	PaymentMethods []string            `bson:"paymentMethods,omitempty"`
	Facilities     []string            `bson:"facilities,omitempty"`
	Tags           []string            `bson:"tags,omitempty"`
	DoorPolicy     *doorPolicyDTO      `bson:"doorPolicy,omitempty"`
	Dresscode      string              `bson:"dresscode,omitempty"`
	Capacity       *float64            `bson:"capacity,omitempty"`
	EntranceFee    *float64            `bson:"entranceFee,omitempty"`
	Prices         *pricesDTO          `bson:"prices,omitempty"`
	Facebook       *facebookDTO        `bson:"facebook,omitempty"`
	OpeningHours   map[string]hoursDTO `bson:"openingHours,omitempty"`
	KitchenHours   map[string]hoursDTO `bson:"kitchenHours,omitempty"`
	TerraceHours   map[string]hoursDTO `bson:"terraceHours,omitempty"`
	BusyFrom       map[string]int      `bson:"busyFrom,omitempty"`
	DancingFrom    map[string]int      `bson:"dancingFrom,omitempty"`
	BitesUntil     map[string]int      `bson:"bitesUntil,omitempty"`
	Distance       *float64            `bson:"distance,omitempty"`
}

type locationDTO struct {
	Country string  `bson:"country,omitempty"`
	City    string  `bson:"city,omitempty"`
	Address string  `bson:"address,omitempty"`
	Geo     *geoDTO `bson:"geo,omitempty"`
}

type geoDTO struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type doorPolicyDTO struct {
	Policy string `bson:"policy,omitempty"`
}

type pricesDTO struct {
	Coke *float64 `bson:"coke,omitempty"`
	Beer *float64 `bson:"beer,omitempty"`
}

type facebookDTO struct {
	ID string `bson:"id,omitempty"`
}

type hoursDTO struct {
	From int `bson:"from"`
	To   int `bson:"to"`
}

func (d *venueDTO) toDomain() domvenue.Venue {
	v := domvenue.Venue{
		ID:             db.IDString(d.ID),
		Name:           d.Name,
		Categories:     d.Categories,
		MusicTypes:     d.MusicTypes,
		VisitorTypes:   d.VisitorTypes,
		PaymentMethods: d.PaymentMethods,
		Facilities:     d.Facilities,
		Tags:           d.Tags,
		Dresscode:      d.Dresscode,
		Capacity:       d.Capacity,
		EntranceFee:    d.EntranceFee,
		OpeningHours:   hours(d.OpeningHours),
		KitchenHours:   hours(d.KitchenHours),
		TerraceHours:   hours(d.TerraceHours),
		BusyFrom:       d.BusyFrom,
		DancingFrom:    d.DancingFrom,
		BitesUntil:     d.BitesUntil,
		Distance:       d.Distance,
	}
	if d.Location != nil {
		v.Country = d.Location.Country
		v.City = d.Location.City
		v.Address = d.Location.Address
		if g := d.Location.Geo; g != nil && len(g.Coordinates) == 2 {
			v.Point = &geo.Point{Longitude: g.Coordinates[0], Latitude: g.Coordinates[1]}
		}
	}
	if d.DoorPolicy != nil {
		v.DoorPolicy = d.DoorPolicy.Policy
	}
	if d.Prices != nil {
		v.Prices = domvenue.Prices{Coke: d.Prices.Coke, Beer: d.Prices.Beer}
	}
	if d.Facebook != nil {
		v.FacebookID = d.Facebook.ID
	}
	return v
}

func hours(m map[string]hoursDTO) map[string]domvenue.Hours {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]domvenue.Hours, len(m))
	for day, h := range m {
		out[day] = domvenue.Hours{From: h.From, To: h.To}
	}
	return out
}
