package dto

type CheckAccessKeyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
