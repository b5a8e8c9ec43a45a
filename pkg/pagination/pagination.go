package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 15
	MaxPerPage     = 100
	MinPerPage     = 1
)

// Params holds validated pagination and sorting parameters
type Params struct {
	Page    int
	PerPage int
	Sort    string
	Order   string // "asc" or "desc"
}

// Parse extracts page/per_page/sort from query parameters. per_page above the
// maximum is clamped, never rejected.
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPerPage)))

	if page < 1 {
		page = DefaultPage
	}
	if perPage < MinPerPage {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	order := c.DefaultQuery("order", "desc")
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return Params{
		Page:    page,
		PerPage: perPage,
		Sort:    c.DefaultQuery("sort", "created_at"),
		Order:   order,
	}
}

// Offset returns the row offset for the current page
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Meta describes a page of results
type Meta struct {
	CurrentPage  int   `json:"current_page"`
	PerPage      int   `json:"per_page"`
	Total        int64 `json:"total"`
	LastPage     int   `json:"last_page"`
	From         int   `json:"from"`
	To           int   `json:"to"`
	HasMorePages bool  `json:"has_more_pages"`
}

// NewMeta computes page metadata. A page beyond the last yields From/To of 0
// with the same totals, matching the empty data array it accompanies.
func NewMeta(p Params, total int64, returned int) Meta {
	lastPage := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}

	from, to := 0, 0
	if returned > 0 {
		from = p.Offset() + 1
		to = p.Offset() + returned
	}

	return Meta{
		CurrentPage:  p.Page,
		PerPage:      p.PerPage,
		Total:        total,
		LastPage:     lastPage,
		From:         from,
		To:           to,
		HasMorePages: p.Page < lastPage,
	}
}
