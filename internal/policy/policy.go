// Package policy decides, for a (subject, action, resource) triple, whether
// the action is allowed and which error to surface when it is not.
//
// The evaluation order is fixed: payload validation happens in the HTTP layer
// before Evaluate is ever called, then authentication, then authorization,
// then existence. Absence of a resource is disclosed only to subjects that
// already have the right to know the resource exists; everyone else gets the
// same Forbidden they would get for a resource they cannot touch, so status
// codes cannot be used to enumerate IDs.
package policy

// Role is the account type carried by an authenticated subject.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBusiness Role = "business"
	RoleStaff    Role = "staff"
)

// Subject is the actor making a request. The zero value is anonymous.
type Subject struct {
	ID            int64
	Role          Role
	Authenticated bool
}

// Anonymous returns an unauthenticated subject.
func Anonymous() Subject { return Subject{} }

// User returns an authenticated subject with the given id and role.
func User(id int64, role Role) Subject {
	return Subject{ID: id, Role: role, Authenticated: true}
}

func (s Subject) staff() bool { return s.Authenticated && s.Role == RoleStaff }

// Action is one of the four CRUD verbs. Create is scoped to a resource kind
// plus the subject's role; the other three target one resource instance.
type Action int

const (
	ActionCreate Action = iota
	ActionRead
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionRead:
		return "read"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Kind tags the resource type under evaluation.
type Kind int

const (
	KindOffer Kind = iota
	KindOrder
	KindReview
	KindProfile
)

func (k Kind) String() string {
	switch k {
	case KindOffer:
		return "offer"
	case KindOrder:
		return "order"
	case KindReview:
		return "review"
	case KindProfile:
		return "profile"
	}
	return "unknown"
}

// scope grades how widely something (reads, existence) is visible.
type scope int

const (
	scopePublic scope = iota
	scopeAuthenticated
	scopeOwner
	scopePrivileged
)

// rule is the static access row for one resource kind.
type rule struct {
	// creator is the role allowed to create the kind. Empty means staff only.
	creator Role
	// read is who may read an existing instance beyond its owners.
	read scope
	// existence is who may learn that an instance does not exist. Kinds with
	// public listings leak nothing by answering 404; order existence is
	// restricted to its participants, so absence stays hidden.
	existence scope
}

var rules = map[Kind]rule{
	KindOffer:   {creator: RoleBusiness, read: scopePublic, existence: scopePublic},
	KindOrder:   {creator: RoleCustomer, read: scopeOwner, existence: scopePrivileged},
	KindReview:  {creator: RoleCustomer, read: scopeAuthenticated, existence: scopeAuthenticated},
	KindProfile: {read: scopeAuthenticated, existence: scopeAuthenticated},
}

// Target is the tri-state resource handle the loader hands to Evaluate:
// a found instance with its owner ids, or an absence marker. Loaders never
// decide whether absence is disclosable; that classification lives here,
// at the existence stage, so a generic fetch-or-404 can't run ahead of the
// authorization checks.
type Target struct {
	found  bool
	owners []int64
}

// Found wraps a loaded resource's owner field(s). Orders carry two owners
// (customer and business); everything else carries one.
func Found(owners ...int64) Target {
	return Target{found: true, owners: owners}
}

// Absent marks a resource that does not exist.
func Absent() Target { return Target{} }

func (t Target) ownedBy(id int64) bool {
	for _, owner := range t.owners {
		if owner == id {
			return true
		}
	}
	return false
}

// Outcome is the symbolic decision. The HTTP layer maps it to a status code.
type Outcome int

const (
	Allowed Outcome = iota
	// InvalidRequest is reserved for the validation stage that runs before
	// Evaluate; Evaluate itself never returns it. It is part of the enum so
	// the whole pipeline shares one result vocabulary.
	InvalidRequest
	Unauthorized
	Forbidden
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case InvalidRequest:
		return "invalid_request"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// Evaluate runs the fixed decision ladder for one request. It is pure and
// safe for concurrent use.
//
// Callers must validate the payload before calling Evaluate and must resolve
// the subject without rejecting the request, so that a malformed body is
// reported ahead of any credential problem.
func Evaluate(sub Subject, action Action, kind Kind, target Target) Outcome {
	r := rules[kind]

	// Authentication. Only public reads are open to anonymous callers; every
	// other action reports Unauthorized before existence is even considered,
	// so an invalid credential and a nonexistent target still yield 401.
	if !sub.Authenticated {
		if action == ActionRead && r.read == scopePublic {
			if !target.found {
				return NotFound
			}
			return Allowed
		}
		return Unauthorized
	}

	// Create is a role gate, not an instance gate.
	if action == ActionCreate {
		if sub.Role == RoleStaff || (r.creator != "" && sub.Role == r.creator) {
			return Allowed
		}
		return Forbidden
	}

	// Authorization against a loaded instance: owners and staff always pass,
	// readers pass per the kind's read scope.
	if target.found {
		if sub.staff() || target.ownedBy(sub.ID) {
			return Allowed
		}
		if action == ActionRead && (r.read == scopePublic || r.read == scopeAuthenticated) {
			return Allowed
		}
		return Forbidden
	}

	// Existence. The target is absent; disclose that only to subjects already
	// entitled to know the resource's existence. Everyone else gets the same
	// Forbidden as "exists but not yours".
	if sub.staff() {
		return NotFound
	}
	switch r.existence {
	case scopePublic, scopeAuthenticated:
		return NotFound
	}
	return Forbidden
}
