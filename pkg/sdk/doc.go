// Package listings provides an embeddable Go client for the nightlife
// listings search engine, backed by MongoDB or an in-memory store.
//
// The client runs the same filter normalization, predicate building, ranking
// and pagination as the HTTP API, without the HTTP layer.
//
//	client, _ := listings.New(ctx,
//	    listings.WithMongo("mongodb://localhost:27017", "nightlife"),
//	    listings.WithBuckets(capacity, listings.CityBuckets{
//	        Country: "nl", City: "amsterdam", Currency: "EUR",
//	        CokePrices: []float64{0, 2.3, 2.8, 3.3},
//	        BeerPrices: []float64{0, 2.4, 3.0, 3.6},
//	    }),
//	)
//	defer client.Close()
//
//	page, _ := client.Venues(ctx, listings.NewQuery().
//	    Country("nl").City("amsterdam").
//	    Set("priceClass", "2").
//	    Tags("live").
//	    Limit(10))
package listings
