package handler

import (
	"github.com/labstack/echo/v4"
)

// Mount registers every page, form and API route on e. Session middleware
// must already be installed.
func (h *Handler) Mount(e *echo.Echo) {
	e.GET("/health", HealthHandler)

	e.GET("/", h.Home)
	e.POST("/search", h.Search)
	e.POST("/search/modify", h.ModifySearch)
	e.POST("/select", h.SelectFlight)
	e.POST("/select/matrix", h.SelectMatrixCell)
	e.POST("/dismiss", h.DismissError)
	e.POST("/home", h.GoHome)

	b := e.Group("/booking")
	b.POST("/continue", h.ContinueBooking)
	b.POST("/back", h.BackToItinerary)
	b.POST("/cancel", h.CancelBooking)
	b.POST("/roster", h.UpdateRoster)
	b.POST("/submit", h.SubmitBooking)
	b.POST("/done", h.FinishBooking)
	b.GET("/itinerary/print", h.PrintItinerary)
	b.GET("/itinerary/pdf", h.DownloadItineraryPDF)
	b.GET("/confirmation/print", h.PrintConfirmation)

	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
	e.GET("/register", h.RegisterPage)
	e.POST("/register", h.Register)
	e.POST("/logout", h.Logout)
	e.GET("/forgot-password", h.ForgotPasswordPage)
	e.POST("/forgot-password", h.ForgotPassword)
	e.GET("/reset-password", h.ResetPasswordPage)
	e.POST("/reset-password", h.ResetPassword)

	a := e.Group("/auth")
	a.GET("/oauth", h.OAuthStart)
	a.GET("/callback", h.OAuthCallback)
	a.POST("/oauth/session", h.OAuthSession)

	e.GET("/contact", h.ContactPage)
	e.POST("/contact", h.Contact)

	api := e.Group("/api")
	api.POST("/calendar", h.Calendar)
	api.POST("/v1/flights/search", NewSearchHandler(h.searcher).Search)
}
