// Package auth issues and verifies bearer tokens and handles passwords.
//
// Tokens are HS256 JWTs carrying the user's id and email. There is no
// revocation list: a token is valid until its exp claim passes.
package auth
