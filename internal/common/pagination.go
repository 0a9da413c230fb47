// File: internal/common/pagination.go
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a normalized page/page_size pair.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset is the row offset for the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NormalizePage clamps page and page size into their valid ranges.
func NormalizePage(page, pageSize int) PageRequest {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PageRequest{Page: page, PageSize: pageSize}
}

// GetPaginationParams extracts pagination parameters from the query string.
func GetPaginationParams(c *gin.Context) PageRequest {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil {
		page = DefaultPage
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		pageSize = DefaultPageSize
	}
	return NormalizePage(page, pageSize)
}
