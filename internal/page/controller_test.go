package page

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightbooking/internal/booking"
	"github.com/dharmasatrya/flightbooking/internal/calendar"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/session"
	"github.com/dharmasatrya/flightbooking/pkg/logger"
)

type fakeSearcher struct {
	offers []models.FlightOffer
	err    error
	calls  int
}

func (f *fakeSearcher) Search(context.Context, models.SearchRequest) ([]models.FlightOffer, error) {
	f.calls++
	return f.offers, f.err
}

type fakeSubmitter struct {
	resp *models.BookingResponse
	err  error
}

func (f *fakeSubmitter) SubmitBooking(context.Context, models.BookingRequest) (*models.BookingResponse, error) {
	return f.resp, f.err
}

func offerAt(id, depart, ret string, price float64) models.FlightOffer {
	d, _ := time.Parse(models.DateLayout, depart)
	o := models.FlightOffer{
		ID:            id,
		Origin:        "LHR",
		Destination:   "JFK",
		DepartureTime: d.Add(9 * time.Hour),
		ArrivalTime:   d.Add(17 * time.Hour),
		Duration:      "PT8H",
		Price:         price,
		Currency:      "GBP",
	}
	if ret != "" {
		r, _ := time.Parse(models.DateLayout, ret)
		o.Return = &models.ReturnLeg{Origin: "JFK", Destination: "LHR", DepartureTime: r.Add(18 * time.Hour), ArrivalTime: r.Add(30 * time.Hour), Duration: "PT7H"}
	}
	return o
}

func searchReq() models.SearchRequest {
	return models.SearchRequest{
		Origin:        "lhr",
		Destination:   "jfk",
		DepartureDate: "2026-11-02",
		ReturnDate:    "2026-11-09",
		Passengers:    models.PassengerCounts{Adults: 1, Children: 1},
		FlexibleDates: true,
	}
}

type fixture struct {
	ctrl      *Controller
	store     *session.MemoryStore
	searcher  *fakeSearcher
	submitter *fakeSubmitter
}

func newFixture() *fixture {
	store := session.NewMemoryStore(time.Hour)
	searcher := &fakeSearcher{offers: []models.FlightOffer{
		offerAt("a", "2026-11-02", "2026-11-09", 400),
		offerAt("b", "2026-11-02", "2026-11-09", 350),
		offerAt("c", "2026-11-03", "2026-11-10", 500),
	}}
	submitter := &fakeSubmitter{}
	ctrl := NewController(searcher, submitter, store, logger.NewWithWriter(io.Discard, "production", "error"))
	ctrl.now = func() time.Time { return time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC) }
	return &fixture{ctrl: ctrl, store: store, searcher: searcher, submitter: submitter}
}

func (f *fixture) dispatch(t *testing.T, cmd Command) *State {
	t.Helper()
	st, err := f.ctrl.Dispatch(context.Background(), "sid", cmd)
	require.NoError(t, err)
	return st
}

func (f *fixture) toBooking(t *testing.T) Booking {
	t.Helper()
	f.dispatch(t, SubmitSearch{Request: searchReq()})
	st := f.dispatch(t, SelectFlight{OfferID: "b"})
	v, ok := st.View.(Booking)
	require.True(t, ok)
	return v
}

func completePassengers() []models.Passenger {
	return []models.Passenger{
		{Title: "Mr", FirstName: "Alan", LastName: "Turing", DateOfBirth: "1980-06-23", Gender: "male"},
		{Title: "Miss", FirstName: "Ada", LastName: "Turing", DateOfBirth: "2018-01-01", Gender: "female"},
	}
}

func contact() models.ContactInfo {
	return models.ContactInfo{Email: "alan@example.com", Phone: "+44 7700 900000"}
}

func TestLoad_DefaultsToIdle(t *testing.T) {
	f := newFixture()
	st, err := f.ctrl.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, KindIdle, st.Kind())
}

func TestSubmitSearch(t *testing.T) {
	f := newFixture()
	st := f.dispatch(t, SubmitSearch{Request: searchReq()})

	v, ok := st.View.(Results)
	require.True(t, ok)
	assert.Len(t, v.Offers, 3)
	assert.Equal(t, "LHR", v.Request.Origin)

	restored, err := f.ctrl.Load(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, KindResults, restored.Kind())
}

func TestSubmitSearch_InvalidRequestStaysIdle(t *testing.T) {
	f := newFixture()
	req := searchReq()
	req.Passengers = models.PassengerCounts{Adults: 1, Infants: 2}

	st, err := f.ctrl.Dispatch(context.Background(), "sid", SubmitSearch{Request: req})
	assert.ErrorIs(t, err, models.ErrValidation)

	v, ok := st.View.(Idle)
	require.True(t, ok)
	assert.Equal(t, string(models.ErrTooManyInfants), v.Message)
	assert.Zero(t, f.searcher.calls)
}

func TestSubmitSearch_FailureShowsError(t *testing.T) {
	f := newFixture()
	f.searcher.err = &models.RequestFailure{Op: "search", Message: "Search is down"}

	st, err := f.ctrl.Dispatch(context.Background(), "sid", SubmitSearch{Request: searchReq()})
	require.Error(t, err)

	v, ok := st.View.(Error)
	require.True(t, ok)
	assert.Equal(t, "Search is down", v.Message)

	st = f.dispatch(t, DismissError{})
	idle, ok := st.View.(Idle)
	require.True(t, ok)
	require.NotNil(t, idle.Request)
	assert.Equal(t, "JFK", idle.Request.Destination)
}

func TestResume_RerunsInterruptedSearch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.ctrl.Save(ctx, "sid", &State{View: Searching{Request: searchReq()}}))

	st, err := f.ctrl.Resume(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, KindResults, st.Kind())
	assert.Equal(t, 1, f.searcher.calls)
}

func TestSelectMatrixCell_UsesCheapest(t *testing.T) {
	f := newFixture()
	f.dispatch(t, SubmitSearch{Request: searchReq()})

	st := f.dispatch(t, SelectMatrixCell{Depart: "2026-11-02", Return: "2026-11-09"})
	v, ok := st.View.(Booking)
	require.True(t, ok)
	assert.Equal(t, "b", v.Wizard.Offer.ID)
	assert.Equal(t, booking.StepItinerary, v.Wizard.Step)
	assert.Len(t, v.Wizard.Passengers, 2)

	_, err := f.ctrl.Dispatch(context.Background(), "sid", SelectMatrixCell{Depart: "2026-11-02", Return: "2026-11-10"})
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestSelectFlight_Unknown(t *testing.T) {
	f := newFixture()
	f.dispatch(t, SubmitSearch{Request: searchReq()})

	st, err := f.ctrl.Dispatch(context.Background(), "sid", SelectFlight{OfferID: "zzz"})
	assert.ErrorIs(t, err, ErrOfferNotFound)
	assert.Equal(t, KindResults, st.Kind())
}

func TestInvalidCommandLeavesStateUnchanged(t *testing.T) {
	f := newFixture()
	for _, cmd := range []Command{SelectFlight{OfferID: "a"}, ContinueBooking{}, CancelBooking{}, CompleteBooking{}, DismissError{}} {
		st, err := f.ctrl.Dispatch(context.Background(), "sid", cmd)
		assert.ErrorIs(t, err, ErrInvalidCommand)
		assert.Equal(t, KindIdle, st.Kind())
	}
}

func TestBookingNavigation(t *testing.T) {
	f := newFixture()
	f.toBooking(t)

	st := f.dispatch(t, ContinueBooking{})
	assert.Equal(t, booking.StepPassengers, st.View.(Booking).Wizard.Step)

	st = f.dispatch(t, BackToItinerary{})
	assert.Equal(t, booking.StepItinerary, st.View.(Booking).Wizard.Step)

	_, err := f.ctrl.Dispatch(context.Background(), "sid", BackToItinerary{})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	st = f.dispatch(t, CancelBooking{})
	v, ok := st.View.(Results)
	require.True(t, ok)
	assert.Len(t, v.Offers, 3)
}

func TestUpdateRoster(t *testing.T) {
	f := newFixture()
	f.toBooking(t)

	st := f.dispatch(t, UpdateRoster{Counts: models.PassengerCounts{Adults: 2, Infants: 1}})
	v := st.View.(Booking)
	assert.Len(t, v.Wizard.Passengers, 3)
	assert.Equal(t, 2, v.Request.Passengers.Adults)

	st, err := f.ctrl.Dispatch(context.Background(), "sid", UpdateRoster{Counts: models.PassengerCounts{Adults: 1, Infants: 2}})
	assert.ErrorIs(t, err, models.ErrTooManyInfants)
	v = st.View.(Booking)
	assert.Len(t, v.Wizard.Passengers, 3)
	assert.NotEmpty(t, v.Wizard.Error)
}

func TestSubmitBooking_ValidationKeepsPassengersStep(t *testing.T) {
	f := newFixture()
	f.toBooking(t)
	f.dispatch(t, ContinueBooking{})

	ps := completePassengers()
	ps[1].DateOfBirth = "2000-01-01" // too old for a child
	st, err := f.ctrl.Dispatch(context.Background(), "sid", SubmitBooking{Passengers: ps, Contact: contact()})
	assert.ErrorIs(t, err, models.ErrValidation)

	v := st.View.(Booking)
	assert.Equal(t, booking.StepPassengers, v.Wizard.Step)
	assert.Contains(t, v.Wizard.Error, "passenger 2")

	restored, err := f.ctrl.Load(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, "Alan", restored.View.(Booking).Wizard.Passengers[0].FirstName)
}

func TestSubmitBooking_SuccessThenComplete(t *testing.T) {
	f := newFixture()
	f.toBooking(t)
	f.dispatch(t, ContinueBooking{})
	f.submitter.resp = &models.BookingResponse{Success: true, PNR: "X7K9QZ"}

	st := f.dispatch(t, SubmitBooking{Passengers: completePassengers(), Contact: contact()})
	v := st.View.(Booking)
	assert.Equal(t, booking.StepConfirmation, v.Wizard.Step)
	assert.Equal(t, "X7K9QZ", v.Wizard.Result.PNR)

	_, err := f.ctrl.Dispatch(context.Background(), "sid", CancelBooking{})
	assert.ErrorIs(t, err, ErrInvalidCommand)
	_, err = f.ctrl.Dispatch(context.Background(), "sid", ModifySearch{})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	st = f.dispatch(t, CompleteBooking{})
	assert.Equal(t, KindIdle, st.Kind())

	var raw json.RawMessage
	assert.ErrorIs(t, f.store.Load(context.Background(), stateKey("sid"), &raw), session.ErrNotFound)
}

func TestSubmitBooking_FalsySuccess(t *testing.T) {
	f := newFixture()
	f.toBooking(t)
	f.dispatch(t, ContinueBooking{})
	f.submitter.resp = &models.BookingResponse{Success: false, Message: "Fare no longer available"}

	st, err := f.ctrl.Dispatch(context.Background(), "sid", SubmitBooking{Passengers: completePassengers(), Contact: contact()})
	assert.ErrorIs(t, err, models.ErrRequestFailed)
	v := st.View.(Booking)
	assert.Equal(t, booking.StepPassengers, v.Wizard.Step)
	assert.Equal(t, "Fare no longer available", v.Wizard.Error)
}

func TestGoHomeClearsSession(t *testing.T) {
	f := newFixture()
	f.toBooking(t)

	st := f.dispatch(t, GoHome{})
	assert.Equal(t, KindIdle, st.Kind())

	st, err := f.ctrl.Load(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, KindIdle, st.Kind())
	assert.Nil(t, st.View.(Idle).Request)
}

func TestModifySearchPrefills(t *testing.T) {
	f := newFixture()
	f.dispatch(t, SubmitSearch{Request: searchReq()})

	st := f.dispatch(t, ModifySearch{})
	v, ok := st.View.(Idle)
	require.True(t, ok)
	require.NotNil(t, v.Request)
	assert.True(t, v.Request.FlexibleDates)
	assert.Equal(t, calendar.Fares{"2026-11-02": 350, "2026-11-03": 500}, v.Fares)

	loaded, err := f.ctrl.Load(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, v.Fares, Fares(loaded.View))
}

func TestStateJSONRoundTrip(t *testing.T) {
	f := newFixture()
	b := f.toBooking(t)

	data, err := json.Marshal(State{View: b})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"booking"`)

	var st State
	require.NoError(t, json.Unmarshal(data, &st))
	got, ok := st.View.(Booking)
	require.True(t, ok)
	assert.Equal(t, b.Wizard.Offer.ID, got.Wizard.Offer.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"mystery","data":{}}`), &st))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"booking","data":{}}`), &st))
}

func TestLoad_CorruptStateStartsOver(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, stateKey("sid"), map[string]string{"kind": "mystery"}))

	st, err := f.ctrl.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, KindIdle, st.Kind())
}
