package pterodactyl

import (
	"encoding/json"

	"github.com/hostbay/panelgate/internal/panelconfig"
)

// CreateParams are the query parameters of the panel creation endpoint.
// User-supplied fields and config-derived identifiers are bound by name;
// there is no positional or template substitution.
type CreateParams struct {
	Username string
	RAM      string
	Disk     string
	CPU      string
	Config   panelconfig.Config
}

// PanelCredentials is the generated account embedded in a successful
// creation response.
type PanelCredentials struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Domain   string      `json:"domain"`
	UserID   json.Number `json:"id_user"`
	ServerID json.Number `json:"id_server"`
}

// CreateResult carries the upstream response. Body is the verbatim payload;
// callers forward it unmodified. OK is judged by the upstream's own status
// field, not merely the HTTP code.
type CreateResult struct {
	StatusCode int
	Body       json.RawMessage
	OK         bool
	Message    string
	Result     *PanelCredentials
}

// Backend identifies one cluster for listing queries.
type Backend struct {
	PanelType panelconfig.PanelType
	Domain    string
	Token     string // application API token (ptla)
}

// Node is the normalized subset of node attributes surfaced in status
// aggregation.
type Node struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	LocationID      int    `json:"location_id"`
	Memory          int64  `json:"memory"`
	AllocatedMemory int64  `json:"allocated_memory"`
	Disk            int64  `json:"disk"`
	AllocatedDisk   int64  `json:"allocated_disk"`
	CPU             int64  `json:"cpu"`
	AllocatedCPU    int64  `json:"allocated_cpu"`
}

type NodeList struct {
	Total int
	Nodes []Node
}

// ServerLimits mirrors the upstream limits object on a server.
type ServerLimits struct {
	Memory  int64 `json:"memory"`
	Swap    int64 `json:"swap"`
	Disk    int64 `json:"disk"`
	IO      int64 `json:"io"`
	CPU     int64 `json:"cpu"`
	Threads any   `json:"threads"`
}

type Server struct {
	ID     int          `json:"id"`
	UUID   string       `json:"uuid"`
	Name   string       `json:"name"`
	Node   int          `json:"node"`
	Limits ServerLimits `json:"limits"`
}

type ServerList struct {
	Total   int
	Servers []Server
}
