// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/jobboard/internal/app/system/auth"
	"github.com/dalemusser/jobboard/internal/app/system/ticker"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the header and page titles.
const SiteName = "Job Board"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/jobs/1"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	UserID     string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// Header tickers, four decimals each.
	BTCTicker string
	TRXTicker string
}

// NewBaseVM fills the user, page and CSRF fields from the request.
// Tickers are left empty; use WithQuote to add them.
func NewBaseVM(r *http.Request, title, backURL string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     backURL,
		CurrentPath: r.URL.Path,
		CSRFToken:   csrf.Token(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserID = u.ID
		vm.UserName = u.Name
	}
	return vm
}

// WithQuote returns vm with the header tickers set from q.
func (vm BaseVM) WithQuote(q ticker.Quote) BaseVM {
	vm.BTCTicker = q.BTCTicker()
	vm.TRXTicker = q.TRXTicker()
	return vm
}
