package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_AnonymousMutationsAlwaysUnauthorized(t *testing.T) {
	anon := Anonymous()

	for _, kind := range []Kind{KindOffer, KindOrder, KindReview, KindProfile} {
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
			for _, target := range []Target{Found(42), Absent()} {
				got := Evaluate(anon, action, kind, target)
				assert.Equal(t, Unauthorized, got,
					"anonymous %s on %s (found=%v)", action, kind, target.found)
			}
		}
	}
}

func TestEvaluate_AnonymousPublicRead(t *testing.T) {
	anon := Anonymous()

	assert.Equal(t, Allowed, Evaluate(anon, ActionRead, KindOffer, Found(7)))
	// Offer existence is public via the list endpoint, so a 404 here leaks
	// nothing an anonymous caller could not already learn.
	assert.Equal(t, NotFound, Evaluate(anon, ActionRead, KindOffer, Absent()))

	// Non-public kinds still require authentication to read.
	assert.Equal(t, Unauthorized, Evaluate(anon, ActionRead, KindReview, Found(7)))
	assert.Equal(t, Unauthorized, Evaluate(anon, ActionRead, KindOrder, Absent()))
	assert.Equal(t, Unauthorized, Evaluate(anon, ActionRead, KindProfile, Found(7)))
}

func TestEvaluate_CreateRoleGate(t *testing.T) {
	customer := User(1, RoleCustomer)
	business := User(2, RoleBusiness)
	staff := User(3, RoleStaff)

	tests := []struct {
		name string
		sub  Subject
		kind Kind
		want Outcome
	}{
		{"business creates offer", business, KindOffer, Allowed},
		{"customer cannot create offer", customer, KindOffer, Forbidden},
		{"customer creates order", customer, KindOrder, Allowed},
		{"business cannot create order", business, KindOrder, Forbidden},
		{"customer creates review", customer, KindReview, Allowed},
		{"business cannot create review", business, KindReview, Forbidden},
		{"only staff creates profiles", customer, KindProfile, Forbidden},
		{"staff creates anything", staff, KindOffer, Allowed},
		{"staff creates profiles", staff, KindProfile, Allowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.sub, ActionCreate, tt.kind, Absent()))
		})
	}
}

// A subject with no relationship to an order must see the same Forbidden
// whether the order exists or not.
func TestEvaluate_HiddenExistenceIsNotDistinguishable(t *testing.T) {
	outsider := User(99, RoleCustomer)

	for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete} {
		existing := Evaluate(outsider, action, KindOrder, Found(1, 2))
		missing := Evaluate(outsider, action, KindOrder, Absent())

		assert.Equal(t, Forbidden, existing, "%s on existing order", action)
		assert.Equal(t, existing, missing,
			"%s must be identical for existing and missing orders", action)
	}
}

func TestEvaluate_OwnerAndParticipantAccess(t *testing.T) {
	customer := User(1, RoleCustomer)
	business := User(2, RoleBusiness)
	order := Found(1, 2) // customer 1 bought from business 2

	for _, sub := range []Subject{customer, business} {
		assert.Equal(t, Allowed, Evaluate(sub, ActionRead, KindOrder, order))
		assert.Equal(t, Allowed, Evaluate(sub, ActionUpdate, KindOrder, order))
		assert.Equal(t, Allowed, Evaluate(sub, ActionDelete, KindOrder, order))
	}

	other := User(3, RoleCustomer)
	assert.Equal(t, Forbidden, Evaluate(other, ActionRead, KindOrder, order))
}

func TestEvaluate_NonOwnerMutationForbidden(t *testing.T) {
	// An authenticated business user patching another business's offer.
	rival := User(5, RoleBusiness)
	offer := Found(6)

	assert.Equal(t, Forbidden, Evaluate(rival, ActionUpdate, KindOffer, offer))
	assert.Equal(t, Forbidden, Evaluate(rival, ActionDelete, KindOffer, offer))
	// Reading stays open: offers are public.
	assert.Equal(t, Allowed, Evaluate(rival, ActionRead, KindOffer, offer))
}

// Deleting an offer and then addressing the same ID again reports NotFound:
// the owner is entitled to learn the offer is gone.
func TestEvaluate_PrivilegedAbsenceDisclosure(t *testing.T) {
	owner := User(6, RoleBusiness)

	assert.Equal(t, Allowed, Evaluate(owner, ActionDelete, KindOffer, Found(6)))
	assert.Equal(t, NotFound, Evaluate(owner, ActionDelete, KindOffer, Absent()))
	assert.Equal(t, NotFound, Evaluate(owner, ActionUpdate, KindOffer, Absent()))
	assert.Equal(t, NotFound, Evaluate(owner, ActionRead, KindOffer, Absent()))
}

func TestEvaluate_StaffSeesEverything(t *testing.T) {
	staff := User(10, RoleStaff)

	for _, kind := range []Kind{KindOffer, KindOrder, KindReview, KindProfile} {
		assert.Equal(t, Allowed, Evaluate(staff, ActionUpdate, kind, Found(1)))
		assert.Equal(t, Allowed, Evaluate(staff, ActionDelete, kind, Found(1)))
		assert.Equal(t, NotFound, Evaluate(staff, ActionDelete, kind, Absent()),
			"staff gets real 404s for %s", kind)
	}
}

func TestEvaluate_ReviewVisibility(t *testing.T) {
	reviewer := User(1, RoleCustomer)
	reader := User(2, RoleBusiness)
	review := Found(1)

	// Any authenticated subject may read a review; only the reviewer mutates.
	assert.Equal(t, Allowed, Evaluate(reader, ActionRead, KindReview, review))
	assert.Equal(t, Forbidden, Evaluate(reader, ActionUpdate, KindReview, review))
	assert.Equal(t, Forbidden, Evaluate(reader, ActionDelete, KindReview, review))
	assert.Equal(t, Allowed, Evaluate(reviewer, ActionUpdate, KindReview, review))

	// Review listings are visible to authenticated users, so absence is too.
	assert.Equal(t, NotFound, Evaluate(reader, ActionDelete, KindReview, Absent()))
}

func TestEvaluate_ProfileAccess(t *testing.T) {
	owner := User(4, RoleCustomer)
	visitor := User(5, RoleBusiness)
	profile := Found(4)

	assert.Equal(t, Allowed, Evaluate(visitor, ActionRead, KindProfile, profile))
	assert.Equal(t, Forbidden, Evaluate(visitor, ActionUpdate, KindProfile, profile))
	assert.Equal(t, Allowed, Evaluate(owner, ActionUpdate, KindProfile, profile))
	assert.Equal(t, NotFound, Evaluate(visitor, ActionRead, KindProfile, Absent()))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "invalid_request", InvalidRequest.String())
	assert.Equal(t, "unauthorized", Unauthorized.String())
	assert.Equal(t, "forbidden", Forbidden.String())
	assert.Equal(t, "not_found", NotFound.String())
}
