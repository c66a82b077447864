package entities

import "time"

// Grant is a durable whitelist record tying a network address to the
// identity that earned it. Grants are append-only: never updated, never
// revoked.
type Grant struct {
	GrantID      string
	IdentityName string
	Address      string
	GrantedAt    time.Time
}

// OutcomeKind is the closed set of terminal results an authorization
// attempt can produce.
type OutcomeKind string

const (
	OutcomeAuthorized        OutcomeKind = "authorized"
	OutcomeAlreadyAuthorized OutcomeKind = "already_authorized"
	OutcomeInvalidToken      OutcomeKind = "invalid_token"
	OutcomeNotInGuild        OutcomeKind = "not_in_guild"
	OutcomeMissingRole       OutcomeKind = "missing_role"
	OutcomeInternalError     OutcomeKind = "internal_error"
)

// Outcome is the authoritative result contract between the authorization
// engine and the transport layer. IdentityName is set only for
// OutcomeAuthorized.
type Outcome struct {
	Kind         OutcomeKind
	IdentityName string
	Address      string
	EvaluatedAt  time.Time
}
