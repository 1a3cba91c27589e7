package listings

import (
	"context"
	"net/url"

	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/search/result"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
	healthuc "github.com/nightlife/listings/internal/usecase/health"
	searchuc "github.com/nightlife/listings/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	venuesFn func(ctx context.Context, raw url.Values, page searchuc.Page) (result.Page[domvenue.Venue], error)
	eventsFn func(ctx context.Context, raw url.Values, page searchuc.Page) (result.Page[domevent.Event], error)
}

func (m *mockSearchUC) ListVenues(
	ctx context.Context, raw url.Values, page searchuc.Page,
) (result.Page[domvenue.Venue], error) {
	return m.venuesFn(ctx, raw, page)
}

func (m *mockSearchUC) ListEvents(
	ctx context.Context, raw url.Values, page searchuc.Page,
) (result.Page[domevent.Event], error) {
	return m.eventsFn(ctx, raw, page)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(searchSvc searchUseCase, healthSvc healthUseCase) *Client {
	return &Client{
		searchSvc: searchSvc,
		healthSvc: healthSvc,
	}
}
