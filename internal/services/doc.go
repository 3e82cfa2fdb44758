// Package services talks to the Spotify Web API.
//
// Three collaborators live here:
//
//   - [Authenticator]: the one-time authorization-code flow producing the
//     initial token triple.
//   - [TokenRefresher]: the refresh-token exchange primitive.
//   - [SpotifyClient]: authenticated resource reads, normalized into the
//     page types this application keeps.
//
// Token lifecycle policy (when to refresh, what to persist) lives in the
// session package, not here.
package services
