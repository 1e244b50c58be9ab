package dnsmodel

import "time"

// AccountStatus tracks the lifecycle state of an Account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountDisabled AccountStatus = "disabled"
	AccountError    AccountStatus = "error"
)

// Account is the persisted, non-secret half of a provider registration.
// Credentials live separately in the credential store; the invariant
// after any successful account-service operation is that an account id
// exists in the account repository if and only if it exists in the
// credential store.
type Account struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Provider  ProviderKind  `json:"provider"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Status    AccountStatus `json:"status,omitempty"`
	Error     string        `json:"error,omitempty"`
}
