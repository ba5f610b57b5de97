package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"gigbay/internal/domain/reviews"
	"gigbay/internal/policy"
)

type CreateReviewPayload struct {
	BusinessUserID int64  `json:"business_user" validate:"required,min=1"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Description    string `json:"description" validate:"required"`
}

type UpdateReviewPayload struct {
	Rating      *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Description *string `json:"description"`
}

func (app *application) loadReviewTarget(ctx context.Context, id int64) (*reviews.Review, policy.Target, error) {
	review, err := app.store.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			return nil, policy.Absent(), nil
		}
		return nil, policy.Absent(), err
	}
	return review, policy.Found(review.ReviewerID), nil
}

func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	sub := subjectFromContext(r)

	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindReview, policy.Found(sub.ID)); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	q := r.URL.Query()

	f := reviews.Filters{OrderBy: q.Get("ordering")}
	if v := q.Get("business_user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("business_user_id must be a valid integer"))
			return
		}
		f.BusinessUserID = &id
	}
	if v := q.Get("reviewer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("reviewer_id must be a valid integer"))
			return
		}
		f.ReviewerID = &id
	}

	list, err := app.store.Reviews.List(r.Context(), f)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, list)
}

func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)
	if outcome := policy.Evaluate(sub, policy.ActionCreate, policy.KindReview, policy.Absent()); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	ctx := r.Context()

	target, err := app.businessTarget(ctx, payload.BusinessUserID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindProfile, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	review := &reviews.Review{
		BusinessUserID: payload.BusinessUserID,
		ReviewerID:     sub.ID,
		Rating:         payload.Rating,
		Description:    payload.Description,
	}

	if err := app.store.Reviews.Create(ctx, review); err != nil {
		if errors.Is(err, reviews.ErrAlreadyReviewed) {
			app.forbiddenResponse(w, r)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, review)
}

func (app *application) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	review, target, err := app.loadReviewTarget(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindReview, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	app.jsonResponse(w, http.StatusOK, review)
}

func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateReviewPayload
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
	_, target, err := app.loadReviewTarget(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionUpdate, policy.KindReview, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	updates := map[string]any{}
	if payload.Rating != nil {
		updates["rating"] = *payload.Rating
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if len(updates) > 0 {
		if err := app.store.Reviews.Update(ctx, id, updates); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	review, err := app.store.Reviews.GetByID(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, review)
}

func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	ctx := r.Context()
	_, target, err := app.loadReviewTarget(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionDelete, policy.KindReview, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	if err := app.store.Reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, map[string]string{})
}
