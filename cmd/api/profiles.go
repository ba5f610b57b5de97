package main

import (
	"context"
	"errors"
	"net/http"

	"gigbay/internal/domain/profiles"
	"gigbay/internal/policy"
)

type UpdateProfilePayload struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=150"`
	LastName     *string `json:"last_name" validate:"omitempty,max=150"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	Tel          *string `json:"tel" validate:"omitempty,max=50"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours" validate:"omitempty,max=100"`
	Email        *string `json:"email" validate:"omitempty,email,max=255"`
}

func (app *application) loadProfileTarget(ctx context.Context, userID int64) (*profiles.Profile, policy.Target, error) {
	profile, err := app.store.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return nil, policy.Absent(), nil
		}
		return nil, policy.Absent(), err
	}
	return profile, policy.Found(profile.UserID), nil
}

func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	profile, target, err := app.loadProfileTarget(r.Context(), userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindProfile, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	app.jsonResponse(w, http.StatusOK, profile)
}

func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateProfilePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	ctx := r.Context()
	_, target, err := app.loadProfileTarget(ctx, userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionUpdate, policy.KindProfile, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	updates := map[string]any{}
	if payload.FirstName != nil {
		updates["first_name"] = *payload.FirstName
	}
	if payload.LastName != nil {
		updates["last_name"] = *payload.LastName
	}
	if payload.Location != nil {
		updates["location"] = *payload.Location
	}
	if payload.Tel != nil {
		updates["tel"] = *payload.Tel
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.WorkingHours != nil {
		updates["working_hours"] = *payload.WorkingHours
	}
	if len(updates) > 0 {
		if err := app.store.Profiles.Update(ctx, userID, updates); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	profile, err := app.store.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, profile)
}

func (app *application) listBusinessProfilesHandler(w http.ResponseWriter, r *http.Request) {
	app.listProfilesByType(w, r, profiles.TypeBusiness)
}

func (app *application) listCustomerProfilesHandler(w http.ResponseWriter, r *http.Request) {
	app.listProfilesByType(w, r, profiles.TypeCustomer)
}

func (app *application) listProfilesByType(w http.ResponseWriter, r *http.Request, profileType string) {
	sub := subjectFromContext(r)

	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindProfile, policy.Found(sub.ID)); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	list, err := app.store.Profiles.ListByType(r.Context(), profileType)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, list)
}

func (app *application) uploadProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	sub := subjectFromContext(r)

	// Uploading a picture edits the caller's own profile.
	if outcome := policy.Evaluate(sub, policy.ActionUpdate, policy.KindProfile, policy.Found(sub.ID)); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	url, err := app.uploadImage(r, "file", "gigbay/profiles")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Profiles.SetPicture(r.Context(), sub.ID, url); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"file": url})
}
