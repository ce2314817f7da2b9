package models

import "time"

// ContentTTL is the lifetime of all user-generated content. Confessions,
// comments and chat messages expire exactly 24 hours after creation.
const ContentTTL = 24 * time.Hour

// ExpiryFrom computes the expiry timestamp for content created at the given time.
func ExpiryFrom(createdAt time.Time) time.Time {
	return createdAt.Add(ContentTTL)
}
