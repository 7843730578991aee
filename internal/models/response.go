package models

type SearchResponse struct {
	Flights []FlightOffer `json:"flights"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
