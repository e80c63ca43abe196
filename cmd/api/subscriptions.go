package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"sigpeche/internal/domain/subscriptions"
	"sigpeche/internal/notify"

	"github.com/go-chi/chi/v5"
)

type SubscriptionPayload struct {
	Label          string   `json:"label" validate:"required,max=150"`
	Active         bool     `json:"active"`
	InterestTypes  []string `json:"interest_types" validate:"required,min=1,dive,required,max=100"`
	Channels       []string `json:"channels" validate:"required,min=1,dive,oneof=email sms whatsapp"`
	Email          string   `json:"email" validate:"required,email,max=255"`
	Phone          *string  `json:"phone,omitempty" validate:"omitempty,gabonphone"`
	WhatsappNumber *string  `json:"whatsapp_number,omitempty" validate:"omitempty,gabonphone"`
}

func (p SubscriptionPayload) toSubscription() *notify.Subscription {
	sub := &notify.Subscription{
		Label:          p.Label,
		Active:         p.Active,
		Email:          p.Email,
		Phone:          p.Phone,
		WhatsappNumber: p.WhatsappNumber,
	}
	for _, t := range p.InterestTypes {
		sub.Interests = append(sub.Interests, notify.Interest{Type: t})
	}
	for _, c := range p.Channels {
		sub.Channels = append(sub.Channels, notify.Channel(c))
	}
	return sub
}

// createSubscriptionHandler godoc
//
//	@Summary	Creates a notification subscription
//	@Tags		subscriptions
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		SubscriptionPayload	true	"Subscription"
//	@Success	201		{object}	notify.Subscription
//	@Security	ApiKeyAuth
//	@Router		/subscriptions [post]
func (app *application) createSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	var payload SubscriptionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := payload.toSubscription()
	if err := app.store.Subscriptions.Create(r.Context(), sub); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, sub); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateSubscriptionHandler godoc
//
//	@Summary	Replaces a subscription
//	@Tags		subscriptions
//	@Accept		json
//	@Produce	json
//	@Param		subscriptionID	path		int					true	"Subscription ID"
//	@Param		payload			body		SubscriptionPayload	true	"Subscription"
//	@Success	200				{object}	notify.Subscription
//	@Security	ApiKeyAuth
//	@Router		/subscriptions/{subscriptionID} [put]
func (app *application) updateSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	subID, err := strconv.ParseInt(chi.URLParam(r, "subscriptionID"), 10, 64)
	if err != nil || subID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid subscription ID"))
		return
	}

	var payload SubscriptionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := payload.toSubscription()
	sub.ID = subID

	if err := app.store.Subscriptions.Update(r.Context(), sub); err != nil {
		if errors.Is(err, subscriptions.ErrSubscriptionNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, sub); err != nil {
		app.internalServerError(w, r, err)
	}
}

type SetActivePayload struct {
	Active bool `json:"active"`
}

// setSubscriptionActiveHandler godoc
//
//	@Summary	Activates or deactivates a subscription
//	@Tags		subscriptions
//	@Accept		json
//	@Produce	json
//	@Param		subscriptionID	path		int					true	"Subscription ID"
//	@Param		payload			body		SetActivePayload	true	"Active flag"
//	@Success	200				{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/subscriptions/{subscriptionID}/active [patch]
func (app *application) setSubscriptionActiveHandler(w http.ResponseWriter, r *http.Request) {
	subID, err := strconv.ParseInt(chi.URLParam(r, "subscriptionID"), 10, 64)
	if err != nil || subID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid subscription ID"))
		return
	}

	var payload SetActivePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Subscriptions.SetActive(r.Context(), subID, payload.Active); err != nil {
		if errors.Is(err, subscriptions.ErrSubscriptionNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "subscription updated"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getSubscriptionHandler godoc
//
//	@Summary	Fetches one subscription
//	@Tags		subscriptions
//	@Produce	json
//	@Param		subscriptionID	path		int	true	"Subscription ID"
//	@Success	200				{object}	notify.Subscription
//	@Security	ApiKeyAuth
//	@Router		/subscriptions/{subscriptionID} [get]
func (app *application) getSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	subID, err := strconv.ParseInt(chi.URLParam(r, "subscriptionID"), 10, 64)
	if err != nil || subID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid subscription ID"))
		return
	}

	sub, err := app.store.Subscriptions.GetByID(r.Context(), subID)
	if err != nil {
		if errors.Is(err, subscriptions.ErrSubscriptionNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, sub); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listSubscriptionsHandler godoc
//
//	@Summary	Lists all subscriptions
//	@Tags		subscriptions
//	@Produce	json
//	@Success	200	{array}	notify.Subscription
//	@Security	ApiKeyAuth
//	@Router		/subscriptions [get]
func (app *application) listSubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := app.store.Subscriptions.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, subs); err != nil {
		app.internalServerError(w, r, err)
	}
}
