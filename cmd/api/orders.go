package main

import (
	"context"
	"errors"
	"net/http"

	"gigbay/internal/domain/offers"
	"gigbay/internal/domain/orders"
	"gigbay/internal/domain/users"
	"gigbay/internal/policy"
)

type CreateOrderPayload struct {
	OfferDetailID int64 `json:"offer_detail_id" validate:"required,min=1"`
}

type UpdateOrderPayload struct {
	Status string `json:"status" validate:"required,oneof=in_progress completed cancelled"`
}

func (app *application) loadOrderTarget(ctx context.Context, id int64) (*orders.Order, policy.Target, error) {
	order, err := app.store.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			return nil, policy.Absent(), nil
		}
		return nil, policy.Absent(), err
	}
	return order, policy.Found(order.CustomerID, order.BusinessID), nil
}

func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	sub := subjectFromContext(r)

	// Listing is a read of the caller's own order collection.
	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindOrder, policy.Found(sub.ID)); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	list, err := app.store.Orders.ListForUser(r.Context(), sub.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, list)
}

func (app *application) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateOrderPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)
	if outcome := policy.Evaluate(sub, policy.ActionCreate, policy.KindOrder, policy.Absent()); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	ctx := r.Context()

	detail, businessID, err := app.store.Offers.GetDetailWithOwner(ctx, payload.OfferDetailID)
	if err != nil {
		if errors.Is(err, offers.ErrDetailNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	order := &orders.Order{
		OrderNumber:        app.orderNumbers.Generate(sub.ID),
		CustomerID:         sub.ID,
		BusinessID:         businessID,
		OfferDetailID:      detail.ID,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price:              detail.Price,
		Features:           detail.Features,
		OfferType:          detail.OfferType,
		Status:             orders.StatusInProgress,
	}

	if err := app.store.Orders.Create(ctx, order); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, order)
}

func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	order, target, err := app.loadOrderTarget(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindOrder, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	app.jsonResponse(w, http.StatusOK, order)
}

func (app *application) updateOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateOrderPayload
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
	order, target, err := app.loadOrderTarget(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionUpdate, policy.KindOrder, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	if err := app.store.Orders.UpdateStatus(ctx, id, payload.Status); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	order.Status = payload.Status

	app.jsonResponse(w, http.StatusOK, order)
}

func (app *application) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	ctx := r.Context()
	_, target, err := app.loadOrderTarget(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionDelete, policy.KindOrder, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	if err := app.store.Orders.Delete(ctx, id); err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, map[string]string{})
}

// businessTarget resolves a business user ID into a policy target so the
// count endpoints share the profile read rules: authenticated callers may
// look, an unknown business user answers 404.
func (app *application) businessTarget(ctx context.Context, id int64) (policy.Target, error) {
	user, err := app.store.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return policy.Absent(), nil
		}
		return policy.Absent(), err
	}
	if user.Role != string(policy.RoleBusiness) {
		return policy.Absent(), nil
	}
	return policy.Found(user.ID), nil
}

func (app *application) orderCountHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "businessUserID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	ctx := r.Context()
	target, err := app.businessTarget(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindProfile, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	count, err := app.store.Orders.CountForBusiness(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]int{"order_count": count})
}

func (app *application) completedOrderCountHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "businessUserID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	ctx := r.Context()
	target, err := app.businessTarget(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionRead, policy.KindProfile, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	count, err := app.store.Orders.CompletedCountForBusiness(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]int{"completed_order_count": count})
}
