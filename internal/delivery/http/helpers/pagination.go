package helpers

import (
	"net/http"
	"strconv"

	"partyplanner/internal/domain"
)

// PageLimits bounds page_size for one listing.
type PageLimits struct {
	Default int
	Max     int
}

// UsernamePageLimits applies to the username directory. Rows are a single
// string, so pages can be larger than the usual 20/100.
var UsernamePageLimits = PageLimits{Default: 50, Max: 200}

// ParsePagination reads page and page_size from the query string. Missing
// values take the defaults and page_size is capped at limits.Max. A value
// that is not a positive integer is rejected with 400 and ok is false.
func ParsePagination(w http.ResponseWriter, r *http.Request, limits PageLimits) (domain.PaginationParams, bool) {
	query := r.URL.Query()
	page, ok := positiveQueryInt(w, query.Get("page"), "page", 1)
	if !ok {
		return domain.PaginationParams{}, false
	}
	pageSize, ok := positiveQueryInt(w, query.Get("page_size"), "page_size", limits.Default)
	if !ok {
		return domain.PaginationParams{}, false
	}
	return domain.PaginationParams{Page: page, PageSize: min(pageSize, limits.Max)}, true
}

func positiveQueryInt(w http.ResponseWriter, raw, name string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return v, true
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewPaginationMeta describes params against total rows.
func NewPaginationMeta(params domain.PaginationParams, total int) PaginationMeta {
	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (total + params.PageSize - 1) / params.PageSize
	}
	return PaginationMeta{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
	}
}
