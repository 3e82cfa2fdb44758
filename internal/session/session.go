package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/services"
	"github.com/desertthunder/statify/internal/shared"
)

// RefreshMargin is how much lifetime an access token must have left to be
// handed out without refreshing. Tokens inside the margin could expire
// mid-request.
const RefreshMargin = 10 * time.Minute

// AccountStore is the slice of the persistence layer the resolver needs.
// Implemented by repositories.AccountRepository.
type AccountStore interface {
	// FindAccountByUserID returns the linked account for a user.
	FindAccountByUserID(ctx context.Context, userID string) (*models.Account, error)

	// UpdateCredential atomically replaces the token triple for the account
	// identified by (provider, providerAccountID).
	UpdateCredential(ctx context.Context, provider, providerAccountID string, cred models.Credential) error
}

// Status classifies how a [Resolution] was produced.
type Status int

const (
	// StatusCached: the stored token had enough lifetime left; no network call.
	StatusCached Status = iota
	// StatusRefreshed: the token was exchanged and the new triple persisted.
	StatusRefreshed
	// StatusStale: refresh was needed but failed; the previous token is
	// returned anyway and Err carries the cause.
	StatusStale
	// StatusFailed: nothing usable; Err carries the cause.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCached:
		return "cached"
	case StatusRefreshed:
		return "refreshed"
	case StatusStale:
		return "stale"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Resolution is the outcome of one token resolution.
//
// The fallback policy is an explicit variant rather than a swallowed error:
// callers branch on Status instead of guessing why a token looks old.
type Resolution struct {
	Status      Status
	AccessToken string
	Err         error // cause, set for StatusStale and StatusFailed
}

// Usable reports whether the resolution carries a token worth trying.
func (r *Resolution) Usable() bool {
	return r.Status != StatusFailed && r.AccessToken != ""
}

// Resolver decides, per request, whether a stored access token can be used
// as-is or must be refreshed first, and keeps the account store consistent
// while doing so.
type Resolver struct {
	store     AccountStore
	refresher services.Refresher
	logger    *log.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewResolver creates a Resolver over the given store and refresher.
func NewResolver(store AccountStore, refresher services.Refresher, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Resolver{
		store:     store,
		refresher: refresher,
		logger:    logger,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing refreshes for one user's account.
//
// Refresh tokens can be single-use: two overlapping resolutions that both
// observe a near-expiry token must not both exchange it, or the second
// exchange invalidates the first's new refresh token and locks the account
// out. The lock spans the whole read-check-refresh-write sequence.
func (r *Resolver) lockFor(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}

// Resolve returns a usable access token for the given user, refreshing first
// when the stored token is inside [RefreshMargin].
//
// Refresh and store failures degrade to the previous token (StatusStale)
// instead of failing the caller: a session stays minimally usable on cached
// data when the token endpoint is transiently unavailable.
func (r *Resolver) Resolve(ctx context.Context, userID string) (*Resolution, error) {
	lock := r.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	account, err := r.store.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	cred := account.Credential()

	if cred.ExpiresAt == nil {
		return r.fallback(cred.AccessToken, shared.ErrMissingExpiry), nil
	}

	remaining := time.Unix(*cred.ExpiresAt, 0).Sub(r.now())
	if remaining > RefreshMargin {
		return &Resolution{Status: StatusCached, AccessToken: cred.AccessToken}, nil
	}

	if cred.RefreshToken == nil || *cred.RefreshToken == "" {
		return r.fallback(cred.AccessToken, shared.ErrNoRefreshToken), nil
	}

	r.logger.Debug("refreshing access token", "user", userID, "remaining", remaining)

	result, err := r.refresher.Refresh(ctx, *cred.RefreshToken)
	if err != nil {
		r.logger.Warn("token refresh failed", "user", userID, "error", err)
		return r.fallback(cred.AccessToken, err), nil
	}

	// The provider may omit a new refresh token; the previous one stays valid
	// and must be preserved, not nulled.
	refreshToken := *cred.RefreshToken
	if result.RefreshToken != "" {
		refreshToken = result.RefreshToken
	}

	expiresAt := r.now().Add(time.Duration(result.ExpiresIn) * time.Second).Unix()
	updated := models.Credential{
		AccessToken:  result.AccessToken,
		RefreshToken: &refreshToken,
		ExpiresAt:    &expiresAt,
	}

	if err := r.store.UpdateCredential(ctx, account.Provider(), account.ProviderAccountID(), updated); err != nil {
		r.logger.Warn("failed to persist refreshed credential", "user", userID, "error", err)
		return r.fallback(cred.AccessToken, err), nil
	}

	return &Resolution{Status: StatusRefreshed, AccessToken: result.AccessToken}, nil
}

// fallback converts a refresh-path failure into the availability-over-freshness
// result: the previous token when there is one, a hard failure otherwise.
func (r *Resolver) fallback(accessToken string, cause error) *Resolution {
	if accessToken == "" {
		return &Resolution{Status: StatusFailed, Err: cause}
	}
	return &Resolution{Status: StatusStale, AccessToken: accessToken, Err: cause}
}
