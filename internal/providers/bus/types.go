package bus

type suggestResponse struct {
	Data struct {
		Documents []document `json:"documents"`
	} `json:"data"`
}

// document is one place returned by the bus auto-suggest upstream.
type document struct {
	ID          string `json:"id"`
	Name        string `json:"n"`
	DisplayName string `json:"dn"`
	Region      string `json:"p"`
}

type searchResponse struct {
	Buses     []operatorGroup `json:"buses"`
	Amenities []amenity       `json:"avail_amen"`
}

// operatorGroup holds one operator's fare summary and its departures.
type operatorGroup struct {
	Fare struct {
		Total     float64 `json:"tf"`
		PerPerson float64 `json:"pp"`
	} `json:"fd"`
	Departures []departure `json:"fl"`
}

type departure struct {
	BusID     string `json:"bid"`
	DepartsAt string `json:"dt"`
	ArrivesAt string `json:"at"`
	Duration  string `json:"du"`
	SeatsLeft int    `json:"aws"`
	Operator  string `json:"cr"`
}

type amenity struct {
	Name string `json:"n"`
}
