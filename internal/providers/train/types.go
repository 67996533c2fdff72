package train

// station is one row of the station suggestion response.
type station struct {
	DisplayName string `json:"e"`
	Name        string `json:"name"`
	ShortCode   string `json:"a"`
	Code        string `json:"code"`
}

// availabilityRequest is the JSON body of the between-stations enquiry.
type availabilityRequest struct {
	ConcessionBooking        bool   `json:"concessionBooking"`
	SrcStn                   string `json:"srcStn"`
	DestStn                  string `json:"destStn"`
	JrnyClass                string `json:"jrnyClass"`
	JrnyDate                 string `json:"jrnyDate"`
	QuotaCode                string `json:"quotaCode"`
	CurrentBooking           string `json:"currentBooking"`
	FlexiFlag                bool   `json:"flexiFlag"`
	HandicapFlag             bool   `json:"handicapFlag"`
	TicketType               string `json:"ticketType"`
	LoyaltyRedemptionBooking bool   `json:"loyaltyRedemptionBooking"`
	FtBooking                bool   `json:"ftBooking"`
}

type availabilityResponse struct {
	Trains []trainRow `json:"trainBtwnStnsList"`
}

type trainRow struct {
	TrainNumber   string   `json:"trainNumber"`
	TrainName     string   `json:"trainName"`
	DepartureTime string   `json:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime"`
	Duration      string   `json:"duration"`
	Classes       []string `json:"avlClasses"`
}
