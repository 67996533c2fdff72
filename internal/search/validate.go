package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alex-user-go/travelsearch/internal/search/types"
)

// DefaultMaxDaysAhead bounds how far in the future a departure may be.
const DefaultMaxDaysAhead = 120

// Validator checks a search request before it reaches the engine.
type Validator struct {
	validate     *validator.Validate
	maxDaysAhead int
	now          func() time.Time
}

// NewValidator creates a Validator. A nil now uses the wall clock.
func NewValidator(maxDaysAhead int, now func() time.Time) *Validator {
	if maxDaysAhead <= 0 {
		maxDaysAhead = DefaultMaxDaysAhead
	}
	if now == nil {
		now = time.Now
	}
	return &Validator{
		validate:     validator.New(),
		maxDaysAhead: maxDaysAhead,
		now:          now,
	}
}

var fieldOrder = []string{"From", "To", "Date", "ReturnDate", "FlightClass", "TrainClass"}

// Validate returns one message per invalid field, or nil when req is acceptable.
func (v *Validator) Validate(req types.SearchRequest) []string {
	req = trimRequest(req)

	problems := make(map[string]string)
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return []string{err.Error()}
		}
		for _, fe := range validationErrs {
			if _, seen := problems[fe.StructField()]; !seen {
				problems[fe.StructField()] = translate(fe)
			}
		}
	}

	if _, bad := problems["Date"]; !bad {
		if msg := v.checkWindow(req.Date); msg != "" {
			problems["Date"] = msg
		}
	}
	if _, bad := problems["ReturnDate"]; !bad && req.ReturnDate != "" {
		if _, dateBad := problems["Date"]; !dateBad && req.ReturnDate <= req.Date {
			problems["ReturnDate"] = "Return date must be after departure date"
		}
	}

	var messages []string
	for _, field := range fieldOrder {
		if msg, ok := problems[field]; ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// checkWindow rejects departures before today or beyond the configured horizon.
// Both sides are compared as calendar dates in the clock's location.
func (v *Validator) checkWindow(date string) string {
	d, err := time.Parse(types.DateLayout, date)
	if err != nil {
		return "Date must be in YYYY-MM-DD format"
	}

	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return "Date cannot be in the past"
	}
	if d.After(today.AddDate(0, 0, v.maxDaysAhead)) {
		return fmt.Sprintf("Date cannot be more than %d days in the future", v.maxDaysAhead)
	}
	return ""
}

func translate(fe validator.FieldError) string {
	switch fe.StructField() {
	case "From":
		return "From location is required and must be at least 2 characters"
	case "To":
		return "To location is required and must be at least 2 characters"
	case "Date":
		if fe.Tag() == "required" {
			return "Date is required"
		}
		return "Date must be in YYYY-MM-DD format"
	case "ReturnDate":
		return "Return date must be in YYYY-MM-DD format"
	case "FlightClass":
		return "Flight class must be one of e, b, w"
	case "TrainClass":
		return "Train class must be one of 2S, SL, 3E, CC, 3A, 2A, 1A"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func trimRequest(req types.SearchRequest) types.SearchRequest {
	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)
	req.Date = strings.TrimSpace(req.Date)
	req.ReturnDate = strings.TrimSpace(req.ReturnDate)
	req.FlightClass = strings.TrimSpace(req.FlightClass)
	req.TrainClass = strings.TrimSpace(req.TrainClass)
	return req
}
