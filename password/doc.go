// Package password provides one-way password hashing for the accounts
// engine using Argon2id with PHC-formatted encoded hashes.
package password
