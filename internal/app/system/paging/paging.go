// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"strconv"
	"strings"
)

// PageSize is the number of jobs shown per listing page.
const PageSize = 40

// ErrNoSuchPage is returned when the requested page is outside the listing.
var ErrNoSuchPage = errors.New("page does not exist")

// ParsePage converts the {page} path segment to a 1-based page number.
// An empty segment means page 1. Anything that is not a positive integer
// is ErrNoSuchPage.
func ParsePage(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, ErrNoSuchPage
	}
	return n, nil
}

// Window describes one page of a listing of Total items.
//
// ShowStart/ShowEnd are the 1-based display range ("showing 41–80 of 95").
// Both are 0 when the listing is empty.
type Window struct {
	Page       int
	PageSize   int
	TotalPages int
	Total      int

	Skip  int // items to skip before this page
	Limit int // items on this page

	ShowStart int
	ShowEnd   int

	HasPrev bool
	HasNext bool
}

// TotalPages returns ceil(total / size).
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Compute returns the window for page over total items using PageSize.
func Compute(total, page int) (Window, error) {
	return ComputeWithSize(total, page, PageSize)
}

// ComputeWithSize is Compute with an explicit page size.
//
// Page 1 is always valid, even for an empty listing; any other page must be
// <= TotalPages.
func ComputeWithSize(total, page, size int) (Window, error) {
	if size <= 0 {
		size = PageSize
	}
	if total < 0 {
		total = 0
	}
	pages := TotalPages(total, size)
	if page < 1 || (page > pages && page != 1) {
		return Window{}, ErrNoSuchPage
	}

	skip := (page - 1) * size
	end := skip + size
	if end > total {
		end = total
	}

	w := Window{
		Page:       page,
		PageSize:   size,
		TotalPages: pages,
		Total:      total,
		Skip:       skip,
		Limit:      end - skip,
		ShowEnd:    end,
		HasPrev:    page > 1,
		HasNext:    page < pages,
	}
	if total > 0 {
		w.ShowStart = skip + 1
	}
	return w, nil
}
