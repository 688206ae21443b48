// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and validation.

# Admin Keys

Admin keys use HMAC-SHA256 over the site's table prefix:

	adminKey := auth.GenerateAdminKey("tx_", salt)
	err := auth.ValidateAdminKey("tx_", adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same prefix and salt always produce the same key, so nothing is stored.
Each provisioned site ("tx_3_", "tx_4_", ...) gets its own key.

Admin routes read the key from the X-Admin-Key header.
*/
package auth
