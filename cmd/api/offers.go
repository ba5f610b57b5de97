package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"gigbay/internal/domain/offers"
	"gigbay/internal/domain/storage"
	"gigbay/internal/params"
	"gigbay/internal/policy"

	"github.com/go-chi/chi/v5"
)

type offerDetailPayload struct {
	Title              string   `json:"title" validate:"required,max=255"`
	Revisions          int      `json:"revisions" validate:"min=0"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days" validate:"required,min=1"`
	Price              float64  `json:"price" validate:"required,gt=0"`
	Features           []string `json:"features" validate:"required"`
	OfferType          string   `json:"offer_type" validate:"required,oneof=basic standard premium"`
}

type CreateOfferPayload struct {
	Title       string               `json:"title" validate:"required,max=255"`
	Description string               `json:"description" validate:"required"`
	Details     []offerDetailPayload `json:"details" validate:"required,len=3,dive"`
}

type updateOfferDetailPayload struct {
	ID                 *int64    `json:"id"`
	Title              *string   `json:"title" validate:"omitempty,max=255"`
	Revisions          *int      `json:"revisions" validate:"omitempty,min=0"`
	DeliveryTimeInDays *int      `json:"delivery_time_in_days" validate:"omitempty,min=1"`
	Price              *float64  `json:"price" validate:"omitempty,gt=0"`
	Features           *[]string `json:"features"`
	OfferType          string    `json:"offer_type" validate:"required,oneof=basic standard premium"`
}

type UpdateOfferPayload struct {
	Title       *string                    `json:"title" validate:"omitempty,max=255"`
	Description *string                    `json:"description" validate:"omitempty"`
	Details     []updateOfferDetailPayload `json:"details" validate:"omitempty,dive"`
}

// loadOfferTarget resolves an offer ID into a policy target plus the offer
// itself when it exists. A lookup error other than absence is reported by the
// caller as a server error.
func (app *application) loadOfferTarget(ctx context.Context, id int64) (*offers.Offer, policy.Target, error) {
	offer, err := app.store.Offers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, offers.ErrNotFound) {
			return nil, policy.Absent(), nil
		}
		return nil, policy.Absent(), err
	}
	return offer, policy.Found(offer.OwnerID), nil
}

func (app *application) listOffersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	f := offers.Filters{
		Search:  q.Get("search"),
		OrderBy: q.Get("ordering"),
	}
	if v := q.Get("creator_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("creator_id must be a valid integer"))
			return
		}
		f.CreatorID = &id
	}
	if v := q.Get("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("min_price must be a valid number"))
			return
		}
		f.MinPrice = &price
	}
	if v := q.Get("max_delivery_time"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("max_delivery_time must be a valid integer"))
			return
		}
		f.MaxDeliveryTime = &days
	}

	list, total, err := app.store.Offers.List(r.Context(), f, p.PageSize, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"offers":     list,
		"pagination": p,
	})
}

func (app *application) createOfferHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateOfferPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seen := map[string]bool{}
	for _, d := range payload.Details {
		seen[d.OfferType] = true
	}
	if !seen[offers.TypeBasic] || !seen[offers.TypeStandard] || !seen[offers.TypePremium] {
		app.badRequestResponse(w, r, errors.New("details must cover the basic, standard and premium tiers"))
		return
	}

	sub := subjectFromContext(r)
	if outcome := policy.Evaluate(sub, policy.ActionCreate, policy.KindOffer, policy.Absent()); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	offer := &offers.Offer{
		OwnerID:     sub.ID,
		Title:       payload.Title,
		Description: payload.Description,
	}
	for _, d := range payload.Details {
		offer.Details = append(offer.Details, offers.OfferDetail{
			Title:              d.Title,
			Revisions:          d.Revisions,
			DeliveryTimeInDays: d.DeliveryTimeInDays,
			Price:              d.Price,
			Features:           d.Features,
			OfferType:          d.OfferType,
		})
	}

	ctx := r.Context()
	err := app.store.WithTx(ctx, func(tx *storage.Tx) error {
		return tx.Offers.Create(ctx, offer)
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	offer.ComputeMins()

	app.jsonResponse(w, http.StatusCreated, offer)
}

func (app *application) getOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "offerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	offer, target, err := app.loadOfferTarget(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindOffer, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	app.jsonResponse(w, http.StatusOK, offer)
}

func (app *application) updateOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "offerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Validation runs before the subject or the resource is even looked at:
	// a malformed body is the caller's first problem, whoever they are.
	var payload UpdateOfferPayload
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
	_, target, err := app.loadOfferTarget(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionUpdate, policy.KindOffer, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	updates := map[string]any{}
	if payload.Title != nil {
		updates["title"] = *payload.Title
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if len(updates) > 0 {
		if err := app.store.Offers.Update(ctx, id, updates); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	for _, d := range payload.Details {
		detailUpdates := map[string]any{}
		if d.Title != nil {
			detailUpdates["title"] = *d.Title
		}
		if d.Revisions != nil {
			detailUpdates["revisions"] = *d.Revisions
		}
		if d.DeliveryTimeInDays != nil {
			detailUpdates["delivery_time_in_days"] = *d.DeliveryTimeInDays
		}
		if d.Price != nil {
			detailUpdates["price"] = *d.Price
		}
		if d.Features != nil {
			detailUpdates["features"] = *d.Features
		}
		if len(detailUpdates) == 0 {
			continue
		}

		if d.ID != nil {
			err = app.store.Offers.UpdateDetailByID(ctx, id, *d.ID, detailUpdates)
		} else {
			err = app.store.Offers.UpdateDetailByType(ctx, id, d.OfferType, detailUpdates)
		}
		if err != nil {
			if errors.Is(err, offers.ErrDetailNotFound) {
				app.badRequestResponse(w, r, err)
				return
			}
			app.internalServerError(w, r, err)
			return
		}
	}

	offer, err := app.store.Offers.GetByID(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, offer)
}

func (app *application) deleteOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "offerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	ctx := r.Context()
	_, target, err := app.loadOfferTarget(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionDelete, policy.KindOffer, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	if err := app.store.Offers.Delete(ctx, id); err != nil {
		if errors.Is(err, offers.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, map[string]string{})
}

func (app *application) getOfferDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "detailID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	detail, ownerID, err := app.store.Offers.GetDetailWithOwner(r.Context(), id)
	target := policy.Absent()
	if err == nil {
		target = policy.Found(ownerID)
	} else if !errors.Is(err, offers.ErrDetailNotFound) {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindOffer, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	app.jsonResponse(w, http.StatusOK, detail)
}

func parseID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return id, nil
}
