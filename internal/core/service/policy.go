package service

// CreateUserDecision is the outcome of the user-creation authorization policy.
type CreateUserDecision int

const (
	// Deny blocks the request outright.
	Deny CreateUserDecision = iota
	// AllowBootstrap permits an unauthenticated creation because the system
	// holds no users yet. The created user is granted admin.
	AllowBootstrap
	// RequireAdmin demands an authenticated requester whose admin flag checks
	// out against a fresh database read.
	RequireAdmin
)

// CanCreateUser decides, once per request, whether a user-creation call may
// proceed. It replaces ad-hoc conditional middleware composition: the gate
// evaluates this policy and acts on the decision.
func CanCreateUser(requesterID string, userCount int64) CreateUserDecision {
	if userCount < 0 {
		return Deny
	}
	if userCount == 0 {
		return AllowBootstrap
	}
	return RequireAdmin
}
