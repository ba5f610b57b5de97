package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Pagination holds the parsed page window plus metadata computed after the
// total count is known.
type Pagination struct {
	PageSize   int  `json:"page_size"`
	Offset     int  `json:"-"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// ParsePagination parses ?page=...&page_size=... defensively; bad values
// fall back to the defaults instead of erroring.
func ParsePagination(q url.Values) Pagination {
	p := Pagination{
		PageSize: defaultPageSize,
		Page:     1,
	}

	if sizeStr := strings.TrimSpace(q.Get("page_size")); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil {
			switch {
			case size <= 0:
				p.PageSize = defaultPageSize
			case size > maxPageSize:
				p.PageSize = maxPageSize
			default:
				p.PageSize = size
			}
		}
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Page = page
		}
	}

	p.Offset = (p.Page - 1) * p.PageSize
	return p
}

// ComputeMeta fills the derived fields once the total count is known.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.PageSize > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.PageSize)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = (p.Page * p.PageSize) < total
}
