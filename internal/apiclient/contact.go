package apiclient

import (
	"context"
	"net/http"

	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/ratelimit"
)

func (c *Client) Contact(ctx context.Context, req models.ContactRequest) (*models.ContactResponse, error) {
	var resp models.ContactResponse
	err := c.do(ctx, call{
		op:       "contact",
		endpoint: ratelimit.EndpointContact,
		method:   http.MethodPost,
		path:     "/contact",
		body:     req,
		out:      &resp,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = MsgUnexpected
		}
		return nil, &models.RequestFailure{Op: "contact", Status: http.StatusOK, Message: msg}
	}
	return &resp, nil
}
