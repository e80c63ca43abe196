package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sigpeche/internal/access"

	"github.com/go-chi/chi/v5"
)

type assignRolePayload struct {
	Role string `json:"role" validate:"required"`
}

// adminAssignUserRoleHandler godoc
//
//	@Summary		Assigns a role to a user
//	@Description	Role label must belong to the closed role enumeration
//	@Tags			admin-roles
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		int					true	"User ID"
//	@Param			body	body		assignRolePayload	true	"Role assignment payload"
//	@Success		200		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/admin/users/{userID}/roles [post]
func (app *application) adminAssignUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid userID"))
		return
	}

	var in assignRolePayload
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	role, err := access.ParseRole(in.Role)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.AccessControl.AssignRole(r.Context(), userID, role); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "role assigned"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminRemoveUserRoleHandler godoc
//
//	@Summary	Removes a role from a user
//	@Tags		admin-roles
//	@Produce	json
//	@Param		userID	path		int		true	"User ID"
//	@Param		role	path		string	true	"Role label"
//	@Success	200		{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/admin/users/{userID}/roles/{role} [delete]
func (app *application) adminRemoveUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid userID"))
		return
	}

	role, err := access.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.AccessControl.RemoveRole(r.Context(), userID, role); err != nil {
		// repo reports "role not found..." when no row is affected; map to 404
		if strings.Contains(err.Error(), "role not found") {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "role removed"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminGetUserRolesHandler godoc
//
//	@Summary	Lists roles for a user
//	@Tags		admin-roles
//	@Produce	json
//	@Param		userID	path	int	true	"User ID"
//	@Success	200		{array}	string
//	@Security	ApiKeyAuth
//	@Router		/admin/users/{userID}/roles [get]
func (app *application) adminGetUserRolesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid userID"))
		return
	}

	roles, err := app.store.AccessControl.GetUserRoles(r.Context(), userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, roles); err != nil {
		app.internalServerError(w, r, err)
	}
}
