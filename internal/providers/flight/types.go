package flight

type suggestResponse struct {
	Data []airport `json:"data"`
}

type airport struct {
	Code    string `json:"airportCode"`
	Name    string `json:"airportName"`
	City    string `json:"cityName"`
	State   string `json:"stateName"`
	Country string `json:"countryName"`
}

type fareResponse struct {
	Data struct {
		Going struct {
			Results []fareRow `json:"results"`
		} `json:"going"`
	} `json:"data"`
}

// fareRow is one itinerary of the ranged fare outlook.
type fareRow struct {
	Airline      string  `json:"airline"`
	AirlineCode  string  `json:"airlineCode"`
	FlightNumber string  `json:"flightNumber"`
	Fare         float64 `json:"fare"`
	SearchID     string  `json:"searchId"`
}
