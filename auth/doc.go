// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth issues and verifies the bearer tokens that identify users.

# Tokens

A token is the user id, URL-safe base64 encoded, followed by a dot and an
HMAC-SHA256 signature of that payload keyed by the server's token secret:

	token := auth.IssueToken(userID, secret)
	userID, err := auth.VerifyToken(token, secret)

Tokens are deterministic, so validation needs no database lookup. Rotating
the secret invalidates every token.

# Headers

	token, err := auth.BearerToken(r.Header.Get("Authorization"))

Credential checks (passwords, external identity providers) are not handled
here; a token is issued when a user registers.
*/
package auth
