package main

import "net/http"

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
	}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

// Base info is the one aggregate endpoint that stays public: it feeds the
// landing page before anyone logs in.
func (app *application) baseInfoHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.store.BaseInfo.Stats(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, stats)
}
