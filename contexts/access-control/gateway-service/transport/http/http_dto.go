package httptransport

import "time"

// AuthorizeResponse reports the terminal outcome of one authorization
// attempt. IdentityName is set only when Outcome is "authorized".
type AuthorizeResponse struct {
	Outcome      string    `json:"outcome"`
	IdentityName string    `json:"identity_name,omitempty"`
	Address      string    `json:"address"`
	EvaluatedAt  time.Time `json:"evaluated_at"`
}

// CheckAddressResponse reports whether an address holds a grant.
type CheckAddressResponse struct {
	Address string `json:"address"`
	Allowed bool   `json:"allowed"`
}
