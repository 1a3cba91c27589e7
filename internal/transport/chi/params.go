package chi

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	searchuc "github.com/nightlife/listings/internal/usecase/search"
)

// listParams are the pagination parameters shared by the listing endpoints.
// Every other query parameter is passed to the search service as is.
type listParams struct {
	Offset *int
	Limit  *int
}

func bindListParams(r *http.Request) (listParams, error) {
	var p listParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "offset", q, &p.Offset); err != nil {
		return listParams{}, fmt.Errorf("invalid format for parameter offset: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &p.Limit); err != nil {
		return listParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return p, nil
}

func (p listParams) page() searchuc.Page {
	var page searchuc.Page
	if p.Offset != nil {
		page.Offset = *p.Offset
	}
	if p.Limit != nil {
		page.Limit = *p.Limit
	}
	return page
}
