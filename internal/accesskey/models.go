package accesskey

import (
	"time"

	"github.com/google/uuid"

	"github.com/hostbay/panelgate/internal/panelconfig"
)

// Restriction limits which panel types a key may provision.
type Restriction string

const (
	RestrictionPublic  Restriction = "public"
	RestrictionPrivate Restriction = "private"
	RestrictionBoth    Restriction = "both"
)

// Allows reports whether a key with this restriction may provision the
// requested panel type.
func (r Restriction) Allows(panelType panelconfig.PanelType) bool {
	switch r {
	case RestrictionPublic:
		return panelType != panelconfig.PanelTypePrivate
	case RestrictionPrivate:
		return panelType != panelconfig.PanelTypePublic
	}
	return true
}

// BanDetails exists iff the key is banned. ExpiresAt is only meaningful for
// non-permanent bans.
type BanDetails struct {
	Permanent bool
	ExpiresAt time.Time
}

// Expired reports whether a non-permanent ban has run out.
func (b *BanDetails) Expired(now time.Time) bool {
	return !b.Permanent && b.ExpiresAt.Before(now)
}

// Key is a bearer credential gating panel provisioning. Keys are created by
// an external administrative process and never deleted here.
type Key struct {
	ID          uuid.UUID
	Key         string
	IsActive    bool
	IsBanned    bool
	Ban         *BanDetails
	Restriction Restriction
	UsageCount  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Status is the terminal state of a key status check.
type Status string

const (
	StatusNotFound Status = "not-found"
	StatusBanned   Status = "banned"
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
)

// StatusResult is produced fresh per CheckStatus call; it is never persisted.
type StatusResult struct {
	Status      Status
	Message     string
	Restriction Restriction // set only when Status is active
}
