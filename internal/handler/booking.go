package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightbooking/internal/booking"
	"github.com/dharmasatrya/flightbooking/internal/document"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/page"
)

// passengerForm carries one value per roster position for every passenger
// field. Non-adult rows submit empty email and phone values so positions
// stay aligned.
type passengerForm struct {
	Titles       []string `form:"title"`
	FirstNames   []string `form:"first_name"`
	LastNames    []string `form:"last_name"`
	DatesOfBirth []string `form:"date_of_birth"`
	Genders      []string `form:"gender"`
	Emails       []string `form:"email"`
	Phones       []string `form:"phone"`

	ContactEmail string `form:"contact_email"`
	ContactPhone string `form:"contact_phone"`
	Address      string `form:"address"`
	City         string `form:"city"`
	Country      string `form:"country"`
	PostalCode   string `form:"postal_code"`
}

func at(values []string, i int) string {
	if i < len(values) {
		return strings.TrimSpace(values[i])
	}
	return ""
}

func (f passengerForm) passengers() []models.Passenger {
	n := len(f.FirstNames)
	for _, l := range [][]string{f.Titles, f.LastNames, f.DatesOfBirth, f.Genders} {
		n = max(n, len(l))
	}
	ps := make([]models.Passenger, n)
	for i := range ps {
		ps[i] = models.Passenger{
			Title:       at(f.Titles, i),
			FirstName:   at(f.FirstNames, i),
			LastName:    at(f.LastNames, i),
			DateOfBirth: at(f.DatesOfBirth, i),
			Gender:      at(f.Genders, i),
			Email:       at(f.Emails, i),
			Phone:       at(f.Phones, i),
		}
	}
	return ps
}

func (f passengerForm) contact() models.ContactInfo {
	return models.ContactInfo{
		Email:      strings.TrimSpace(f.ContactEmail),
		Phone:      strings.TrimSpace(f.ContactPhone),
		Address:    strings.TrimSpace(f.Address),
		City:       strings.TrimSpace(f.City),
		Country:    strings.TrimSpace(f.Country),
		PostalCode: strings.TrimSpace(f.PostalCode),
	}
}

type rosterForm struct {
	Adults   int `form:"adults" validate:"gte=1,lte=9"`
	Youth    int `form:"youth" validate:"gte=0,lte=9"`
	Children int `form:"children" validate:"gte=0,lte=9"`
	Infants  int `form:"infants" validate:"gte=0,lte=9"`
}

func (h *Handler) ContinueBooking(c echo.Context) error {
	return h.dispatch(c, page.ContinueBooking{})
}

func (h *Handler) BackToItinerary(c echo.Context) error {
	return h.dispatch(c, page.BackToItinerary{})
}

func (h *Handler) CancelBooking(c echo.Context) error {
	return h.dispatch(c, page.CancelBooking{})
}

func (h *Handler) UpdateRoster(c echo.Context) error {
	var form rosterForm
	if err := c.Bind(&form); err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if err := c.Validate(&form); err != nil {
		if wantsJSON(c) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "validation_error",
				Message: validationMessage(err),
				Code:    http.StatusBadRequest,
			})
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return h.dispatch(c, page.UpdateRoster{Counts: models.PassengerCounts{
		Adults:   form.Adults,
		Youth:    form.Youth,
		Children: form.Children,
		Infants:  form.Infants,
	}})
}

// SubmitBooking is "complete booking" on the passenger step.
func (h *Handler) SubmitBooking(c echo.Context) error {
	var form passengerForm
	if err := c.Bind(&form); err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return h.dispatch(c, page.SubmitBooking{Passengers: form.passengers(), Contact: form.contact()})
}

// FinishBooking is "search new flight" on the confirmation step.
func (h *Handler) FinishBooking(c echo.Context) error {
	return h.dispatch(c, page.CompleteBooking{})
}

func (h *Handler) currentWizard(c echo.Context) (*booking.Wizard, error) {
	st, err := h.pages.Load(c.Request().Context(), SessionID(c))
	if err != nil {
		return nil, err
	}
	v, ok := st.View.(page.Booking)
	if !ok {
		return nil, nil
	}
	return v.Wizard, nil
}

func (h *Handler) buildDocument(c echo.Context, kind document.Kind) (document.Document, bool, error) {
	w, err := h.currentWizard(c)
	if err != nil || w == nil {
		return document.Document{}, false, err
	}
	if kind == document.KindConfirmation && w.Step != booking.StepConfirmation {
		return document.Document{}, false, nil
	}
	return document.Build(kind, document.Input{
		Offer:      w.Offer,
		Passengers: w.Passengers,
		Breakdown:  w.Breakdown,
		Contact:    w.Contact,
		Result:     w.Result,
		Now:        h.now(),
	}), true, nil
}

func noDocument(c echo.Context) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_available",
		Message: "There is no booking to export.",
		Code:    http.StatusNotFound,
	})
}

func (h *Handler) printDocument(c echo.Context, kind document.Kind) error {
	doc, ok, err := h.buildDocument(c, kind)
	if err != nil {
		return h.serverError(c, err)
	}
	if !ok {
		return noDocument(c)
	}
	var buf bytes.Buffer
	if err := document.RenderHTML(&buf, doc); err != nil {
		return h.serverError(c, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) PrintItinerary(c echo.Context) error {
	return h.printDocument(c, document.KindItinerary)
}

func (h *Handler) PrintConfirmation(c echo.Context) error {
	return h.printDocument(c, document.KindConfirmation)
}

func (h *Handler) DownloadItineraryPDF(c echo.Context) error {
	doc, ok, err := h.buildDocument(c, document.KindItinerary)
	if err != nil {
		return h.serverError(c, err)
	}
	if !ok {
		return noDocument(c)
	}
	var buf bytes.Buffer
	if err := document.RenderPDF(&buf, doc); err != nil {
		return h.serverError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="itinerary.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
