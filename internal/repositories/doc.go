// Package repositories implements SQLite-backed persistence for accounts.
//
// The account repository doubles as the session layer's account store:
// look up the linked account for a user, and atomically replace its token
// triple after a refresh.
package repositories
