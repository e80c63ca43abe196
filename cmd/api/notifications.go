package main

import (
	"fmt"
	"net/http"
	"strconv"
)

// listNotificationsHandler godoc
//
//	@Summary		Lists recent notification history
//	@Description	Simulation records appended by the matcher, newest first
//	@Tags			notifications
//	@Produce		json
//	@Param			subscription_id	query	int	false	"Filter by subscription"
//	@Param			limit			query	int	false	"Max records (default 50)"
//	@Success		200				{array}	notify.Record
//	@Security		ApiKeyAuth
//	@Router			/notifications [get]
func (app *application) listNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = l
	}

	if raw := r.URL.Query().Get("subscription_id"); raw != "" {
		subID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || subID <= 0 {
			app.badRequestResponse(w, r, fmt.Errorf("invalid subscription_id"))
			return
		}

		recs, err := app.store.History.ListBySubscription(r.Context(), subID, limit)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		if err := app.jsonResponse(w, http.StatusOK, recs); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	recs, err := app.store.History.ListRecent(r.Context(), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, recs); err != nil {
		app.internalServerError(w, r, err)
	}
}
