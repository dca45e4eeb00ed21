package model

import "time"

// ShareDescriptor is the public-access record for a tour, stored in the
// `tour_shares` table. Exactly one row may exist per tour. The ShareID token
// is generated once and stays stable across updates; IsPublic gates whether
// token lookups are honored at all.
//
// The password hash and expiry only apply to the token viewer path. The
// owner-independent `status == published` gate on direct public fetches is a
// separate mechanism and deliberately not merged with IsPublic.
type ShareDescriptor struct {
	ID           uint64     `json:"-"`          // tour_shares.id
	TourID       uint64     `json:"tour_id"`    // tour_shares.tour_id (unique)
	ShareID      string     `json:"share_id"`   // 32-char hex token
	IsPublic     bool       `json:"is_public"`  // honor token lookups when true
	PasswordHash *string    `json:"-"`          // bcrypt hash, nil when no password is set
	ExpiresAt    *time.Time `json:"expires_at"` // nil means no expiry
	CreatedAt    time.Time  `json:"created_at"` // tour_shares.created_at
	UpdatedAt    time.Time  `json:"updated_at"` // tour_shares.updated_at
}

// Expired reports whether the descriptor carries an expiry in the past.
func (s *ShareDescriptor) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}
