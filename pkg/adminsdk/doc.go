// Package adminsdk is a client for the Arrimage synchronization backend.
//
// A Client holds the connection settings; a Session layers the authenticated
// protocol on top: it persists the token pair and identity through a
// TokenStore, attaches the bearer token to every request, silently refreshes
// an expired access token (coalescing concurrent refresh attempts into a
// single call), and tears the session down when the refresh token itself is
// rejected. Role-based gating for console affordances lives in policy.go and
// is pure: it never touches the network or the store.
package adminsdk
