package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightbooking/internal/booking"
	"github.com/dharmasatrya/flightbooking/internal/fare"
	"github.com/dharmasatrya/flightbooking/internal/filter"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/page"
	"github.com/dharmasatrya/flightbooking/internal/pricematrix"
)

// searchForm is the HTML search form. Multi-city legs arrive as repeated,
// index-aligned fields.
type searchForm struct {
	TripType         string   `form:"trip_type" validate:"omitempty,oneof=one-way round-trip multi-city"`
	Origin           string   `form:"origin" validate:"omitempty,max=4"`
	Destination      string   `form:"destination" validate:"omitempty,max=4"`
	DepartureDate    string   `form:"departure_date"`
	ReturnDate       string   `form:"return_date"`
	Adults           int      `form:"adults" validate:"gte=0,lte=9"`
	Youth            int      `form:"youth" validate:"gte=0,lte=9"`
	Children         int      `form:"children" validate:"gte=0,lte=9"`
	Infants          int      `form:"infants" validate:"gte=0,lte=9"`
	TravelClass      string   `form:"travel_class" validate:"omitempty,oneof=economy premium_economy business first"`
	DirectOnly       bool     `form:"direct_only"`
	FlexibleDates    bool     `form:"flexible_dates"`
	PreferredAirline string   `form:"preferred_airline" validate:"omitempty,max=3"`
	LegOrigins       []string `form:"leg_origin"`
	LegDestinations  []string `form:"leg_destination"`
	LegDates         []string `form:"leg_date"`
}

func (f searchForm) request() models.SearchRequest {
	req := models.SearchRequest{
		TripType:         models.TripType(f.TripType),
		Origin:           f.Origin,
		Destination:      f.Destination,
		DepartureDate:    f.DepartureDate,
		ReturnDate:       f.ReturnDate,
		Passengers:       models.PassengerCounts{Adults: f.Adults, Youth: f.Youth, Children: f.Children, Infants: f.Infants},
		TravelClass:      f.TravelClass,
		DirectOnly:       f.DirectOnly,
		FlexibleDates:    f.FlexibleDates,
		PreferredAirline: f.PreferredAirline,
	}
	if req.TripType == models.TripMultiCity {
		for i := range f.LegOrigins {
			leg := models.Leg{Origin: f.LegOrigins[i]}
			if i < len(f.LegDestinations) {
				leg.Destination = f.LegDestinations[i]
			}
			if i < len(f.LegDates) {
				leg.DepartureDate = f.LegDates[i]
			}
			if leg == (models.Leg{}) {
				continue
			}
			req.Legs = append(req.Legs, leg)
		}
	}
	return req
}

// resultsQuery holds the sort and filter controls of the results list.
type resultsQuery struct {
	SortBy     string   `query:"sort"`
	SortOrder  string   `query:"order"`
	DirectOnly bool     `query:"direct_only"`
	Airlines   []string `query:"airline"`
	PriceMax   float64  `query:"price_max"`
}

func (q resultsQuery) criteria() *filter.Criteria {
	c := &filter.Criteria{
		DirectOnly: q.DirectOnly,
		Airlines:   q.Airlines,
	}
	if q.PriceMax > 0 {
		limit := q.PriceMax
		c.PriceMax = &limit
	}
	return c
}

// Selected reports whether the airline filter includes code.
func (q resultsQuery) Selected(code string) bool {
	for _, a := range q.Airlines {
		if strings.EqualFold(a, code) {
			return true
		}
	}
	return false
}

type homeData struct {
	baseData
	Kind      page.Kind
	Form      models.SearchRequest
	FormLegs  []models.Leg
	Today     string
	Searching *page.Searching
	Results   *resultsView
	Booking   *bookingView
}

type resultsView struct {
	Request   models.SearchRequest
	Offers    []models.FlightOffer
	Total     int
	Airlines  []models.Airline
	Query     resultsQuery
	Matrix    []pricematrix.Row
	Returns   []string
	Lowest    float64
	HasLowest bool
}

type bookingView struct {
	Request models.SearchRequest
	Wizard  *booking.Wizard
	Step    string
	Fares   []fare.Line
	Titles  []string
	Genders []string
}

// Home renders whatever view the visitor's session is in.
func (h *Handler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	st, err := h.pages.Resume(ctx, SessionID(c))
	if err != nil {
		return h.serverError(c, err)
	}
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, st)
	}
	return c.Render(http.StatusOK, "index.html", h.homeData(c, st))
}

func (h *Handler) homeData(c echo.Context, st *page.State) homeData {
	data := homeData{
		baseData: h.base(c, "Search flights"),
		Kind:     st.Kind(),
		Form:     models.SearchRequest{TripType: models.TripRoundTrip, Passengers: models.PassengerCounts{Adults: 1}, TravelClass: models.ClassEconomy},
		Today:    h.now().Format(models.DateLayout),
	}

	switch v := st.View.(type) {
	case page.Idle:
		if v.Request != nil {
			data.Form = *v.Request
		}
		data.Error = v.Message
	case page.Searching:
		data.Form = v.Request
		data.Searching = &v
		data.Title = "Searching..."
	case page.Error:
		if v.Request != nil {
			data.Form = *v.Request
		}
		data.Error = v.Message
	case page.Results:
		data.Form = v.Request
		data.Results = h.resultsView(c, v)
		data.Title = v.Request.Route()
	case page.Booking:
		data.Form = v.Request
		data.Booking = &bookingView{
			Request: v.Request,
			Wizard:  v.Wizard,
			Step:    v.Wizard.Step.String(),
			Fares:   v.Wizard.Breakdown.Lines(),
			Titles:  []string{"Mr", "Mrs", "Ms", "Miss", "Mstr", "Dr"},
			Genders: []string{"male", "female", "other"},
		}
		data.Error = v.Wizard.Error
		data.Title = "Book " + v.Wizard.Offer.Origin + " to " + v.Wizard.Offer.Destination
	}

	data.FormLegs = data.Form.Legs
	for len(data.FormLegs) < models.MinMultiCityLegs {
		data.FormLegs = append(data.FormLegs, models.Leg{})
	}
	return data
}

func (h *Handler) resultsView(c echo.Context, v page.Results) *resultsView {
	var q resultsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		ctx := c.Request().Context()
		h.logFor(ctx).WithError(err).DebugContext(ctx, "Ignoring unreadable result filters")
		q = resultsQuery{}
	}

	rv := &resultsView{
		Request:  v.Request,
		Offers:   filter.Apply(v.Offers, q.criteria(), q.SortBy, q.SortOrder),
		Total:    len(v.Offers),
		Airlines: filter.Airlines(v.Offers),
		Query:    q,
	}
	if v.Request.FlexibleDates {
		m := pricematrix.Build(v.Offers)
		rv.Matrix = m.Rows()
		rv.Returns = m.ReturnDates
		rv.Lowest, rv.HasLowest = m.Lowest()
	}
	return rv
}

// Search submits the search form.
func (h *Handler) Search(c echo.Context) error {
	var form searchForm
	if err := c.Bind(&form); err != nil {
		return h.rejectSearch(c, form.request(), "Please check the search form and try again.")
	}
	if err := c.Validate(&form); err != nil {
		return h.rejectSearch(c, form.request(), validationMessage(err))
	}
	return h.dispatch(c, page.SubmitSearch{Request: form.request()})
}

// rejectSearch redisplays the form without touching the saved state.
func (h *Handler) rejectSearch(c echo.Context, req models.SearchRequest, msg string) error {
	if wantsJSON(c) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: msg,
			Code:    http.StatusBadRequest,
		})
	}
	data := h.homeData(c, &page.State{View: page.Idle{Request: &req, Message: msg}})
	return c.Render(http.StatusBadRequest, "index.html", data)
}

func (h *Handler) SelectFlight(c echo.Context) error {
	return h.dispatch(c, page.SelectFlight{OfferID: strings.TrimSpace(c.FormValue("offer_id"))})
}

func (h *Handler) SelectMatrixCell(c echo.Context) error {
	return h.dispatch(c, page.SelectMatrixCell{Depart: c.FormValue("depart"), Return: c.FormValue("return")})
}

func (h *Handler) ModifySearch(c echo.Context) error {
	return h.dispatch(c, page.ModifySearch{})
}

func (h *Handler) DismissError(c echo.Context) error {
	return h.dispatch(c, page.DismissError{})
}

func (h *Handler) GoHome(c echo.Context) error {
	return h.dispatch(c, page.GoHome{})
}
