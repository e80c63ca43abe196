package main

import (
	"encoding/json"
	"net/http"
)

type PushTokenPayload struct {
	Token      string          `json:"token" validate:"required"`
	DeviceInfo json.RawMessage `json:"device_info,omitempty"`
}

// registerPushTokenHandler godoc
//
//	@Summary	Registers a mobile push token for the authenticated user
//	@Tags		push-tokens
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		PushTokenPayload	true	"Expo push token"
//	@Success	200		{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/push-tokens [post]
func (app *application) registerPushTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload PushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	if err := app.store.PushTokens.AddOrUpdate(r.Context(), user.ID, payload.Token, payload.DeviceInfo); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "token registered"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// removePushTokenHandler godoc
//
//	@Summary	Removes a mobile push token
//	@Tags		push-tokens
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		PushTokenPayload	true	"Expo push token"
//	@Success	200		{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/push-tokens [delete]
func (app *application) removePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload PushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	if err := app.store.PushTokens.Remove(r.Context(), user.ID, payload.Token); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "token removed"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
