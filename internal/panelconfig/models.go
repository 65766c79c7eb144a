package panelconfig

import "time"

// PanelType classifies a backend cluster. Access key restrictions and
// provisioning configuration are keyed by it.
type PanelType string

const (
	PanelTypePublic  PanelType = "public"
	PanelTypePrivate PanelType = "private"
)

// ParsePanelType normalizes and validates a caller-supplied panel type.
func ParsePanelType(s string) (PanelType, bool) {
	switch PanelType(s) {
	case PanelTypePublic:
		return PanelTypePublic, true
	case PanelTypePrivate:
		return PanelTypePrivate, true
	}
	return "", false
}

// Config holds the provisioning parameters for one backend cluster.
// At most one row exists per panel type.
type Config struct {
	PanelType PanelType
	Domain    string
	EggID     string
	NestID    string
	Loc       string
	PTLA      string // application API token
	PTLC      string // client API token
	UpdatedAt time.Time
}

// Maintenance is the site-wide maintenance flag. An absent row reads as
// disabled.
type Maintenance struct {
	Enabled     bool       `json:"enabled"`
	LastUpdated *time.Time `json:"lastUpdated"`
}
