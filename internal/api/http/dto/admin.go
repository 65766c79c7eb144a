package dto

type SetMaintenanceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
