package apiclient

import (
	"context"
	"net/http"

	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/ratelimit"
)

// SubmitBooking posts the booking. A 2xx answer is returned as-is, including
// one whose success flag is false; the caller decides what that means.
func (c *Client) SubmitBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error) {
	var resp models.BookingResponse
	err := c.do(ctx, call{
		op:       "booking",
		endpoint: ratelimit.EndpointBooking,
		method:   http.MethodPost,
		path:     "/bookings",
		body:     req,
		out:      &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
