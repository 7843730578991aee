package apiclient

import (
	"context"
	"net/http"

	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/ratelimit"
	"github.com/dharmasatrya/flightbooking/internal/timezone"
)

type searchResponse struct {
	Flights []wireOffer `json:"flights"`
}

// wireOffer is the flat shape the search endpoint answers with. The return
// leg is carried as prefixed fields next to the outbound ones.
type wireOffer struct {
	ID            string  `json:"id"`
	Airline       string  `json:"airline"`
	AirlineCode   string  `json:"airline_code"`
	AirlineLogo   string  `json:"airline_logo"`
	FlightNumber  string  `json:"flight_number"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Duration      string  `json:"duration"`
	Stops         int     `json:"stops"`
	Layover       string  `json:"layover"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`

	ReturnFlightNumber  string `json:"return_flight_number"`
	ReturnDepartureTime string `json:"return_departure_time"`
	ReturnArrivalTime   string `json:"return_arrival_time"`
	ReturnDuration      string `json:"return_duration"`
	ReturnStops         int    `json:"return_stops"`
	ReturnLayover       string `json:"return_layover"`

	SeatsRemaining *int `json:"seats_remaining"`
	DateOffset     *int `json:"date_offset"`
}

func searchPath(req models.SearchRequest) string {
	if req.TripType == models.TripMultiCity {
		return "/flights/search/multi-city"
	}
	return "/flights/search"
}

// Search returns the offers for a validated request. Answers are cached by
// request so a reload or a "modify search" round trip does not hit the API
// again.
func (c *Client) Search(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, error) {
	if offers, ok := c.cache.Get(ctx, req); ok {
		c.logFor(ctx).LogSearch(ctx, req.Route(), string(req.TripType), len(offers), true)
		return offers, nil
	}

	var resp searchResponse
	err := c.do(ctx, call{
		op:       "search",
		endpoint: ratelimit.EndpointSearch,
		method:   http.MethodPost,
		path:     searchPath(req),
		body:     req,
		out:      &resp,

		idempotent: true,
	})
	if err != nil {
		return nil, err
	}

	offers := make([]models.FlightOffer, 0, len(resp.Flights))
	for _, w := range resp.Flights {
		offer, err := normalize(w)
		if err != nil {
			c.logFor(ctx).WarnContext(ctx, "Skipping malformed offer", "id", w.ID, "error", err.Error())
			continue
		}
		offers = append(offers, offer)
	}

	if err := c.cache.Set(ctx, req, offers); err != nil {
		c.logFor(ctx).WarnContext(ctx, "Search cache write failed", "error", err.Error())
	}
	c.logFor(ctx).LogSearch(ctx, req.Route(), string(req.TripType), len(offers), false)
	return offers, nil
}

func normalize(w wireOffer) (models.FlightOffer, error) {
	dep, err := timezone.ParseTimeWithOffset(w.DepartureTime, w.Origin)
	if err != nil {
		return models.FlightOffer{}, err
	}
	arr, err := timezone.ParseTimeWithOffset(w.ArrivalTime, w.Destination)
	if err != nil {
		return models.FlightOffer{}, err
	}

	currency := w.Currency
	if currency == "" {
		currency = models.CurrencyGBP
	}

	offer := models.FlightOffer{
		ID: w.ID,
		Airline: models.Airline{
			Code: w.AirlineCode,
			Name: w.Airline,
			Logo: w.AirlineLogo,
		},
		FlightNumber:   w.FlightNumber,
		Origin:         w.Origin,
		Destination:    w.Destination,
		DepartureTime:  dep,
		ArrivalTime:    arr,
		Duration:       w.Duration,
		Stops:          w.Stops,
		Layover:        w.Layover,
		Price:          w.Price,
		Currency:       currency,
		SeatsRemaining: w.SeatsRemaining,
		DateOffset:     w.DateOffset,
	}

	if w.ReturnDepartureTime != "" {
		retDep, err := timezone.ParseTimeWithOffset(w.ReturnDepartureTime, w.Destination)
		if err != nil {
			return models.FlightOffer{}, err
		}
		retArr, err := timezone.ParseTimeWithOffset(w.ReturnArrivalTime, w.Origin)
		if err != nil {
			return models.FlightOffer{}, err
		}
		offer.Return = &models.ReturnLeg{
			FlightNumber:  w.ReturnFlightNumber,
			Origin:        w.Destination,
			Destination:   w.Origin,
			DepartureTime: retDep,
			ArrivalTime:   retArr,
			Duration:      w.ReturnDuration,
			Stops:         w.ReturnStops,
			Layover:       w.ReturnLayover,
		}
	}

	return offer, nil
}
