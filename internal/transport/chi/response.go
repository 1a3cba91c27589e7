package chi

import (
	"time"

	"github.com/nightlife/listings/internal/domain/bucket"
	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/search/result"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
)

type errorResponse struct {
	Code    string `json:"code"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type pageResponse[R any] struct {
	Results    []R `json:"results"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
	TotalCount int `json:"totalCount"`
}

func listResponse[T, R any](page result.Page[T], conv func(*T) R) pageResponse[R] {
	items := page.Items()
	out := make([]R, len(items))
	for i := range items {
		out[i] = conv(&items[i])
	}
	return pageResponse[R]{
		Results:    out,
		Offset:     page.Offset(),
		Limit:      page.Limit(),
		TotalCount: page.TotalCount(),
	}
}

type locationResponse struct {
	Country     string    `json:"country,omitempty"`
	City        string    `json:"city,omitempty"`
	Address     string    `json:"address,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"` // [longitude, latitude]
}

type rangeResponse struct {
	Low  float64  `json:"low"`
	High *float64 `json:"high"` // null for the open top bucket
}

type pricesResponse struct {
	Coke *float64 `json:"coke,omitempty"`
	Beer *float64 `json:"beer,omitempty"`
}

type hoursResponse struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type venueResponse struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name,omitempty"`
	Location         *locationResponse        `json:"location,omitempty"`
	Categories       []string                 `json:"categories,omitempty"`
	MusicTypes       []string                 `json:"musicTypes,omitempty"`
	VisitorTypes     []string                 `json:"visitorTypes,omitempty"`
	PaymentMethods   []string                 `json:"paymentMethods,omitempty"`
	Facilities       []string                 `json:"facilities,omitempty"`
	Tags             []string                 `json:"tags,omitempty"`
	DoorPolicy       string                   `json:"doorPolicy,omitempty"`
	Dresscode        string                   `json:"dresscode,omitempty"`
	Capacity         *float64                 `json:"capacity,omitempty"`
	CapacityRange    *rangeResponse           `json:"capacityRange,omitempty"`
	EntranceFee      *float64                 `json:"entranceFee,omitempty"`
	EntranceFeeRange *rangeResponse           `json:"entranceFeeRange,omitempty"`
	Prices           *pricesResponse          `json:"prices,omitempty"`
	PriceClass       *int                     `json:"priceClass,omitempty"`
	Currency         string                   `json:"currency,omitempty"`
	FacebookID       string                   `json:"facebookId,omitempty"`
	OpeningHours     map[string]hoursResponse `json:"openingHours,omitempty"`
	KitchenHours     map[string]hoursResponse `json:"kitchenHours,omitempty"`
	TerraceHours     map[string]hoursResponse `json:"terraceHours,omitempty"`
	BusyFrom         map[string]int           `json:"busyFrom,omitempty"`
	DancingFrom      map[string]int           `json:"dancingFrom,omitempty"`
	BitesUntil       map[string]int           `json:"bitesUntil,omitempty"`
	Distance         *float64                 `json:"distance,omitempty"` // meters
}

func venueToResponse(v *domvenue.Venue) venueResponse {
	resp := venueResponse{
		ID:               v.ID,
		Name:             v.Name,
		Categories:       v.Categories,
		MusicTypes:       v.MusicTypes,
		VisitorTypes:     v.VisitorTypes,
		PaymentMethods:   v.PaymentMethods,
		Facilities:       v.Facilities,
		Tags:             v.Tags,
		DoorPolicy:       v.DoorPolicy,
		Dresscode:        v.Dresscode,
		Capacity:         v.Capacity,
		CapacityRange:    rangeToResponse(v.CapacityRange),
		EntranceFee:      v.EntranceFee,
		EntranceFeeRange: rangeToResponse(v.EntranceFeeRange),
		PriceClass:       v.PriceClass,
		Currency:         v.Currency,
		FacebookID:       v.FacebookID,
		OpeningHours:     hoursToResponse(v.OpeningHours),
		KitchenHours:     hoursToResponse(v.KitchenHours),
		TerraceHours:     hoursToResponse(v.TerraceHours),
		BusyFrom:         v.BusyFrom,
		DancingFrom:      v.DancingFrom,
		BitesUntil:       v.BitesUntil,
		Distance:         v.Distance,
	}
	if v.Country != "" || v.City != "" || v.Address != "" || v.Point != nil {
		loc := &locationResponse{Country: v.Country, City: v.City, Address: v.Address}
		if v.Point != nil {
			loc.Coordinates = []float64{v.Point.Longitude, v.Point.Latitude}
		}
		resp.Location = loc
	}
	if v.Prices.Coke != nil || v.Prices.Beer != nil {
		resp.Prices = &pricesResponse{Coke: v.Prices.Coke, Beer: v.Prices.Beer}
	}
	return resp
}

func rangeToResponse(r *bucket.Range) *rangeResponse {
	if r == nil {
		return nil
	}
	return &rangeResponse{Low: r.Low, High: r.High}
}

func hoursToResponse(h map[string]domvenue.Hours) map[string]hoursResponse {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]hoursResponse, len(h))
	for day, v := range h {
		out[day] = hoursResponse{From: v.From, To: v.To}
	}
	return out
}

type eventResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Venue       string            `json:"venue,omitempty"`
	Artists     []string          `json:"artists,omitempty"`
	Organiser   string            `json:"organiser,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Date        *time.Time        `json:"date,omitempty"`
	Location    *locationResponse `json:"location,omitempty"`
}

func eventToResponse(e *domevent.Event) eventResponse {
	resp := eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.VenueID,
		Artists:     e.ArtistIDs,
		Organiser:   e.OrganiserID,
		Tags:        e.Tags,
		Date:        e.Date,
	}
	if e.Country != "" || e.City != "" {
		resp.Location = &locationResponse{Country: e.Country, City: e.City}
	}
	return resp
}
