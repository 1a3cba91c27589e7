package filter

// Family selects the parameter catalog of a listing endpoint.
type Family int

const (
	// Venues is the full venue filter surface.
	Venues Family = iota
	// Events is the event subset.
	Events
)

func (f Family) String() string {
	if f == Events {
		return "events"
	}
	return "venues"
}

// Parameter names shared by both families.
const (
	ParamIDs        = "ids"
	ParamExcludeIDs = "excludeIds"
	ParamCountry    = "country"
	ParamCity       = "city"
	ParamTag        = "tag"
	ParamTags       = "tags"
	ParamText       = "text"
	ParamSort       = "sort"
	ParamFields     = "fields"
)

// Venue parameters.
const (
	ParamCategories     = "categories"
	ParamMusicTypes     = "musicTypes"
	ParamVisitorTypes   = "visitorTypes"
	ParamPaymentMethods = "paymentMethods"
	ParamHasFacebookID  = "hasFacebookId"
	ParamDoorPolicy     = "doorPolicy"
	ParamDresscode      = "dresscode"
	ParamCapacity       = "capacity"
	ParamPriceClass     = "priceClass"
	ParamEntranceFee    = "entranceFee"
	ParamNoEntranceFee  = "noEntranceFee"
	ParamNoBouncers     = "noBouncers"
	ParamOpenAt         = "openAt"
	ParamOpenNow        = "openNow"
	ParamKitchenOpenAt  = "kitchenOpenAt"
	ParamTerraceOpenAt  = "terraceOpenAt"
	ParamBusyAt         = "busyAt"
	ParamDancingAt      = "dancingAt"
	ParamBitesAt        = "bitesAt"
	ParamLongitude      = "longitude"
	ParamLatitude       = "latitude"
)

// Facility flags. FacilityTags maps each to the tag stored in the venue's
// facilities set.
const (
	ParamVIPArea     = "vipArea"
	ParamSmokingArea = "smokingArea"
	ParamTerrace     = "terrace"
	ParamHeaters     = "heaters"
	ParamBouncers    = "bouncers"
	ParamKitchen     = "kitchen"
	ParamCoatCheck   = "coatCheck"
	ParamParking     = "parking"
	ParamCigarettes  = "cigarettes"
	ParamAccessible  = "accessible"
)

// Event parameters.
const (
	ParamVenue     = "venue"
	ParamArtist    = "artist"
	ParamOrganiser = "organiser"
	ParamTagged    = "tagged"
	ParamDateFrom  = "dateFrom"
	ParamDateTo    = "dateTo"
)

// FacilityParams lists the facility flags in a fixed order.
var FacilityParams = []string{
	ParamVIPArea, ParamSmokingArea, ParamTerrace, ParamHeaters, ParamBouncers,
	ParamKitchen, ParamCoatCheck, ParamParking, ParamCigarettes, ParamAccessible,
}

// FacilityTags maps a facility flag to its stored facility tag.
var FacilityTags = map[string]string{
	ParamVIPArea:     "vip-area",
	ParamSmokingArea: "smoking-area",
	ParamTerrace:     "terrace",
	ParamHeaters:     "heaters",
	ParamBouncers:    "bouncers",
	ParamKitchen:     "kitchen",
	ParamCoatCheck:   "cloakroom",
	ParamParking:     "parking",
	ParamCigarettes:  "cigarettes",
	ParamAccessible:  "accessible",
}

type kind int

const (
	kindString kind = iota
	kindSet
	kindIDs
	kindBool
	kindTime
	kindDate
	kindFloat
	kindText
)

// scalar reports whether a parameter of this kind takes exactly one value.
func (k kind) scalar() bool {
	switch k {
	case kindString, kindBool, kindTime, kindDate, kindFloat:
		return true
	}
	return false
}

var commonParams = map[string]kind{
	ParamIDs:        kindIDs,
	ParamExcludeIDs: kindIDs,
	ParamCountry:    kindString,
	ParamCity:       kindString,
	ParamTag:        kindString,
	ParamTags:       kindSet,
	ParamText:       kindText,
	ParamSort:       kindSet,
	ParamFields:     kindSet,
}

var venueParams = merge(commonParams, map[string]kind{
	ParamCategories:     kindSet,
	ParamMusicTypes:     kindSet,
	ParamVisitorTypes:   kindSet,
	ParamPaymentMethods: kindSet,
	ParamHasFacebookID:  kindBool,
	ParamDoorPolicy:     kindSet,
	ParamDresscode:      kindSet,
	ParamCapacity:       kindSet,
	ParamPriceClass:     kindSet,
	ParamEntranceFee:    kindSet,
	ParamNoEntranceFee:  kindBool,
	ParamNoBouncers:     kindBool,
	ParamOpenAt:         kindTime,
	ParamOpenNow:        kindBool,
	ParamKitchenOpenAt:  kindTime,
	ParamTerraceOpenAt:  kindTime,
	ParamBusyAt:         kindTime,
	ParamDancingAt:      kindTime,
	ParamBitesAt:        kindTime,
	ParamLongitude:      kindFloat,
	ParamLatitude:       kindFloat,
	ParamVIPArea:        kindBool,
	ParamSmokingArea:    kindBool,
	ParamTerrace:        kindBool,
	ParamHeaters:        kindBool,
	ParamBouncers:       kindBool,
	ParamKitchen:        kindBool,
	ParamCoatCheck:      kindBool,
	ParamParking:        kindBool,
	ParamCigarettes:     kindBool,
	ParamAccessible:     kindBool,
})

var eventParams = merge(commonParams, map[string]kind{
	ParamVenue:     kindIDs,
	ParamArtist:    kindIDs,
	ParamOrganiser: kindIDs,
	ParamTagged:    kindBool,
	ParamDateFrom:  kindDate,
	ParamDateTo:    kindDate,
})

func merge(a, b map[string]kind) map[string]kind {
	out := make(map[string]kind, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func (f Family) catalog() map[string]kind {
	if f == Events {
		return eventParams
	}
	return venueParams
}
