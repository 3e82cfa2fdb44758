// Package session owns the access-token lifecycle.
//
// Every session read goes through [Resolver.Resolve]: check the stored
// expiry, refresh through the token endpoint when fewer than ten minutes
// remain, persist the new triple atomically, and serialize the whole
// sequence per account so a single-use refresh token is never spent twice.
package session
