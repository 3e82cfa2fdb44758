// Package models contains the persistent data model.
//
// The only entity is [Account]: a linked Spotify account holding the token
// triple (access token, refresh token, expiry). Accounts are keyed by the
// composite (provider, provider_account_id) identity and mutated only through
// [Account.SetCredential] via the repositories layer.
package models
