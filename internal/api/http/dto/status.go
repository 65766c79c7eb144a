package dto

import (
	"github.com/hostbay/panelgate/internal/panelconfig"
	"github.com/hostbay/panelgate/internal/status"
)

type NodeStatusResponse struct {
	Success bool               `json:"success"`
	Nodes   []status.NodeEntry `json:"nodes"`
}

type ServerStatusResponse struct {
	Success bool                 `json:"success"`
	Servers []status.ServerEntry `json:"servers"`
}

type MaintenanceResponse struct {
	Success         bool                    `json:"success"`
	MaintenanceMode panelconfig.Maintenance `json:"maintenanceMode"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
