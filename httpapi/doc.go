// Package httpapi exposes the accounts engine over HTTP: multipart
// registration, JSON/form login, cookie-based refresh and logout, one
// response envelope for every endpoint, and an access-token guard for
// authenticated routes.
package httpapi
