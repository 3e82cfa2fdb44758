// Package server hosts the short-lived local HTTP server that receives the
// OAuth2 authorization-code callback during `auth login`.
package server
