package models

import (
	"fmt"
	"time"
)

// Credential is the token triple stored on an [Account].
//
// RefreshToken and ExpiresAt are pointers because the provider may never have
// issued them; a nil value is "absent", which readers must distinguish from
// empty or zero.
type Credential struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	ExpiresAt    *int64  `json:"expires_at"` // unix seconds
}

// Account represents one linked provider account, identified by the composite
// key (provider, provider_account_id).
type Account struct {
	id                string
	sequence          int
	userID            string
	provider          string
	providerAccountID string
	credential        Credential
	scope             string
	createdAt         time.Time
	updatedAt         time.Time
	deletedAt         *time.Time
}

// NewAccount creates an Account for the given user and provider identity.
func NewAccount(sequence int, userID, provider, providerAccountID string) *Account {
	now := time.Now()
	return &Account{
		sequence:          sequence,
		userID:            userID,
		provider:          provider,
		providerAccountID: providerAccountID,
		createdAt:         now,
		updatedAt:         now,
	}
}

func (a *Account) ID() string                { return a.id }
func (a *Account) Sequence() int             { return a.sequence }
func (a *Account) UserID() string            { return a.userID }
func (a *Account) Provider() string          { return a.provider }
func (a *Account) ProviderAccountID() string { return a.providerAccountID }
func (a *Account) Credential() Credential    { return a.credential }
func (a *Account) Scope() string             { return a.scope }
func (a *Account) CreatedAt() time.Time      { return a.createdAt }
func (a *Account) UpdatedAt() time.Time      { return a.updatedAt }
func (a *Account) DeletedAt() *time.Time     { return a.deletedAt }

func (a *Account) SetID(id string)               { a.id = id }
func (a *Account) SetScope(scope string)         { a.scope = scope }
func (a *Account) SetCredential(cred Credential) { a.credential = cred }
func (a *Account) SetUpdatedAt(t time.Time)      { a.updatedAt = t }
func (a *Account) SetDeletedAt(t *time.Time)     { a.deletedAt = t }

// Validate checks that the account carries a full provider identity.
func (a *Account) Validate() error {
	if a.userID == "" {
		return fmt.Errorf("account user_id is required")
	}
	if a.provider == "" {
		return fmt.Errorf("account provider is required")
	}
	if a.providerAccountID == "" {
		return fmt.Errorf("account provider_account_id is required")
	}
	return nil
}
