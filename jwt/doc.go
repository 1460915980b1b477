// Package jwt signs and parses the two token kinds used by the accounts
// engine: short-lived access tokens and longer-lived refresh tokens. Both
// are HS256 JWTs carrying the user id in the registered "sub" claim; the
// access token additionally carries username, email, and fullname
// convenience claims. The two kinds are signed with distinct secrets so
// one can never verify as the other.
package jwt
