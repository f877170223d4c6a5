package main

import "net/http"

// getSessionHandler returns the session the middleware resolved for this
// request.
func (app *application) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)

	if err := app.jsonResponse(w, http.StatusOK, sess, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}
