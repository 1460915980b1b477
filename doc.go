// Package accounts implements a user-account backend engine: registration
// with avatar/cover-image upload, password login, refresh-token session
// continuation, and logout.
//
// The package is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (User, PublicUser, TokenPair). Flow
// orchestration lives under internal/ and is never exported; storage,
// file upload, token signing, and password hashing are pluggable through
// the [Store] and [Uploader] interfaces and the jwt/password subpackages
// wired in by the builder.
//
// # Token lifecycle
//
// Login and Refresh issue a short-lived access JWT and a longer-lived
// refresh JWT. The refresh token is persisted onto the user record before
// either token is returned, replacing any prior value, so at most one
// refresh token is valid per user at any time. Refresh validates the
// presented token cryptographically and then against the stored value;
// success rotates the pair, which invalidates the token that was just
// presented. Logout clears the stored value.
//
// # Concurrency
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build]. Concurrent refreshes for the same user are
// last-write-wins unless the engine is built with a Redis client, in which
// case they are single-flighted per user.
package accounts
