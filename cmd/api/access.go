package main

import "net/http"

// getDestinationHandler godoc
//
//	@Summary		Returns the actor's landing dashboard
//	@Description	Resolves the first destination-table entry matching the actor's roles
//	@Tags			access
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/access/destination [get]
func (app *application) getDestinationHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	path := app.accessRouter.Landing(user.Roles)

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"path": path}); err != nil {
		app.internalServerError(w, r, err)
	}
}
