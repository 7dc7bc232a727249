// Package jobform turns submitted job and bid forms into validated values.
package jobform

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dalemusser/jobboard/internal/app/system/inputval"
)

// ErrBadExpiry is returned by ComputeExpiry for anything that is not a
// non-negative whole number of days.
var ErrBadExpiry = errors.New("expiry must be a whole number of days")

// JobInput is the raw "post a job" form.
type JobInput struct {
	Title        string `form:"title" validate:"required,max=200" label:"Title"`
	WorkType     string `form:"workType" validate:"required,max=100" label:"Work type"`
	Description  string `form:"description" validate:"required,max=20000" label:"Description"`
	Budget       string `form:"budget" validate:"required,max=100" label:"Budget"`
	ExpiresAt    string `form:"expiresAt" validate:"max=5" label:"Expiry"`
	Skills       string `form:"skills" validate:"required,max=2000" label:"Skills"`
	Availability string `form:"availability" validate:"required,max=100" label:"Availability"`
}

// JobDraft is a JobInput that passed validation, ready to store.
type JobDraft struct {
	Title        string
	WorkType     string
	Description  string
	Budget       string
	End          *time.Time
	Skills       []string
	Availability string
}

// BidInput is the raw bid form (create and update).
type BidInput struct {
	Body   string `form:"body" validate:"required,max=5000" label:"Proposal"`
	Amount string `form:"amount" validate:"required,numeric,max=20" label:"Amount"`
}

// JobInputFromForm reads the job fields from a parsed form, trimming space.
func JobInputFromForm(form url.Values) JobInput {
	return JobInput{
		Title:        strings.TrimSpace(form.Get("title")),
		WorkType:     strings.TrimSpace(form.Get("workType")),
		Description:  strings.TrimSpace(form.Get("description")),
		Budget:       strings.TrimSpace(form.Get("budget")),
		ExpiresAt:    strings.TrimSpace(form.Get("expiresAt")),
		Skills:       strings.TrimSpace(form.Get("skills")),
		Availability: strings.TrimSpace(form.Get("availability")),
	}
}

// BidInputFromForm reads the bid fields from a parsed form.
func BidInputFromForm(form url.Values) BidInput {
	return BidInput{
		Body:   strings.TrimSpace(form.Get("body")),
		Amount: strings.TrimSpace(form.Get("amount")),
	}
}

// ValidateJob checks in and, when it is valid, returns the draft to store.
// now anchors the expiry computation.
func ValidateJob(in JobInput, now time.Time) (JobDraft, inputval.Result) {
	res := inputval.Validate(in)

	end, err := ComputeExpiry(in.ExpiresAt, now)
	if err != nil {
		res.Add("expiresAt", "Expiry must be a whole number of days.")
	}

	skills := ParseSkills(in.Skills)
	if in.Skills != "" && len(skills) == 0 {
		res.Add("skills", "Select at least one skill.")
	}

	if res.HasErrors() {
		return JobDraft{}, res
	}
	return JobDraft{
		Title:        Capitalize(in.Title),
		WorkType:     in.WorkType,
		Description:  in.Description,
		Budget:       in.Budget,
		End:          end,
		Skills:       skills,
		Availability: in.Availability,
	}, res
}

// ValidateBid checks a bid form.
func ValidateBid(in BidInput) inputval.Result {
	res := inputval.Validate(in)
	if res.HasErrors() {
		return res
	}
	if f, err := strconv.ParseFloat(in.Amount, 64); err != nil || f <= 0 {
		res.Add("amount", "Amount must be greater than zero.")
	}
	return res
}

// ParseSkills splits a comma-joined skill list. Tokens are trimmed and empty
// tokens (such as the one after a trailing comma) are dropped; order is kept.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ComputeExpiry returns now + days for a whole number of days, or nil for
// an empty string (no expiry).
func ComputeExpiry(raw string, now time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return nil, ErrBadExpiry
	}
	end := now.AddDate(0, 0, days)
	return &end, nil
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
