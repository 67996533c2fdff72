package types

import "time"

// DateLayout is the calendar date format accepted on the search API.
const DateLayout = "2006-01-02"

// Mode is a transport mode.
type Mode string

const (
	ModeTrain  Mode = "train"
	ModeBus    Mode = "bus"
	ModeFlight Mode = "flight"
)

// Modes lists every transport mode in reporting order.
var Modes = []Mode{ModeTrain, ModeBus, ModeFlight}

// Location is a provider-assigned code for a place, valid for one mode only.
type Location struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Mode   Mode   `json:"type"`
	City   string `json:"city,omitempty"`
	Region string `json:"state,omitempty"`
}

// Stop is one end of a travel option.
type Stop struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Time string `json:"time"`
}

// Price is an amount in whole currency units.
type Price struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// TravelOption is the normalized result unit shared by every provider.
type TravelOption struct {
	ID               string   `json:"id"`
	Provider         string   `json:"provider"`
	Mode             Mode     `json:"type"`
	From             Stop     `json:"from"`
	To               Stop     `json:"to"`
	Duration         string   `json:"duration"`
	Price            Price    `json:"price"`
	Available        bool     `json:"availability"`
	BookingReference string   `json:"bookingReference,omitempty"`
	Class            string   `json:"class,omitempty"`
	Operator         string   `json:"operator,omitempty"`
	Stops            *int     `json:"stops,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
}

// SearchRequest is the inbound search as received from the API.
type SearchRequest struct {
	From        string `json:"from" validate:"required,min=2"`
	To          string `json:"to" validate:"required,min=2"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	ReturnDate  string `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FlightClass string `json:"flightClass,omitempty" validate:"omitempty,oneof=e b w"`
	TrainClass  string `json:"trainClass,omitempty" validate:"omitempty,oneof=2S SL 3E CC 3A 2A 1A"`
}

// FailureKind classifies why a search did not succeed.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureInvalid means the request itself could not be interpreted.
	FailureInvalid
	// FailureResolution means an endpoint could not be resolved at all.
	FailureResolution
	// FailureNoRoute means both endpoints resolved but share no transport mode.
	FailureNoRoute
	// FailureInternal means the search aborted on an unexpected fault.
	FailureInternal
)

// Result is the aggregated answer to one search.
type Result struct {
	Success bool        `json:"success"`
	Data    ResultData  `json:"data"`
	Errors  []string    `json:"errors,omitempty"`
	Failure FailureKind `json:"-"`
}

// ResultData carries the options and an echo of the request.
type ResultData struct {
	Options      []TravelOption `json:"options"`
	SearchParams SearchRequest  `json:"searchParams"`
	Timestamp    time.Time      `json:"timestamp"`
}

// ProviderStatus is a point-in-time health snapshot of one provider.
type ProviderStatus struct {
	Provider string `json:"provider"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}
