package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

const MsgContactFailed = "Your message could not be sent. Please try again."

type contactData struct {
	baseData
	Form        models.ContactRequest
	ReferenceID string
	Sent        bool
}

func (h *Handler) ContactPage(c echo.Context) error {
	data := contactData{baseData: h.base(c, "Contact us")}
	if data.User != nil {
		data.Form.Name = strings.TrimSpace(data.User.FirstName + " " + data.User.LastName)
		data.Form.Email = data.User.Email
	}
	return c.Render(http.StatusOK, "contact.html", data)
}

func (h *Handler) Contact(c echo.Context) error {
	data := contactData{baseData: h.base(c, "Contact us")}

	var req models.ContactRequest
	_ = c.Bind(&req)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	data.Form = req

	if err := c.Validate(&req); err != nil {
		msg := validationMessage(err)
		if wantsJSON(c) {
			return authError(c, http.StatusBadRequest, msg)
		}
		data.Error = msg
		return c.Render(http.StatusBadRequest, "contact.html", data)
	}

	resp, err := h.contact.Contact(c.Request().Context(), req)
	if err != nil {
		msg := models.UserMessage(err, MsgContactFailed)
		if wantsJSON(c) {
			return authError(c, http.StatusBadGateway, msg)
		}
		data.Error = msg
		return c.Render(http.StatusBadGateway, "contact.html", data)
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, resp)
	}
	data.Sent = true
	data.ReferenceID = resp.ReferenceID
	data.Notice = resp.Message
	if data.Notice == "" {
		data.Notice = "Thanks for getting in touch. We will reply by email."
	}
	data.Form = models.ContactRequest{}
	return c.Render(http.StatusOK, "contact.html", data)
}
