package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	adminMiddleware := standardMiddleware.Append(app.requireAdmin)

	mux := pat.New()

	// Email verification
	mux.Post("/api/verify/send", standardMiddleware.ThenFunc(app.verifyHandler.SendCode))
	mux.Post("/api/verify/check", standardMiddleware.ThenFunc(app.verifyHandler.CheckCode))

	// Checkout
	mux.Post("/api/checkout/stripe", standardMiddleware.ThenFunc(app.checkoutHandler.CreateStripeCheckout))
	mux.Post("/api/checkout/paypal", standardMiddleware.ThenFunc(app.checkoutHandler.CreatePayPalOrder))

	// Pending submissions
	mux.Get("/api/pending_submission", standardMiddleware.ThenFunc(app.pendingHandler.GetPendingSubmission))
	mux.Del("/api/pending_submission", standardMiddleware.ThenFunc(app.pendingHandler.DeletePendingSubmission))

	// Case creation after payment
	mux.Post("/api/case/stripe", standardMiddleware.ThenFunc(app.caseHandler.CreateCaseStripe))
	mux.Post("/api/case/paypal", standardMiddleware.ThenFunc(app.caseHandler.CreateCasePayPal))
	mux.Post("/api/case/ueberweisung", standardMiddleware.ThenFunc(app.caseHandler.CreateCaseUeberweisung))

	// Public status lookup
	mux.Post("/api/case/lookup", standardMiddleware.ThenFunc(app.caseHandler.LookupCase))

	// Evidence uploads
	mux.Post("/api/case/:id/evidence", standardMiddleware.ThenFunc(app.uploadHandler.UploadEvidence))

	// Provider webhooks
	mux.Post("/api/webhook/stripe", standardMiddleware.ThenFunc(app.webhookHandler.HandleStripeWebhook))

	// Deadline sweep (external trigger)
	mux.Post("/api/cron/deadlines", standardMiddleware.ThenFunc(app.cronHandler.RunDeadlineSweep))

	// Admin dashboard
	mux.Post("/api/admin/login", standardMiddleware.ThenFunc(app.adminHandler.Login))
	mux.Get("/api/admin/cases", adminMiddleware.ThenFunc(app.adminHandler.ListCases))
	mux.Get("/api/admin/cases/:id", adminMiddleware.ThenFunc(app.adminHandler.GetCase))
	mux.Post("/api/admin/cases/:id/status", adminMiddleware.ThenFunc(app.adminHandler.SetStatus))
	mux.Post("/api/admin/cases/:id/notes", adminMiddleware.ThenFunc(app.adminHandler.SetNotes))
	mux.Post("/api/admin/cases/:id/confirm_payment", adminMiddleware.ThenFunc(app.adminHandler.ConfirmPayment))

	return mux
}
