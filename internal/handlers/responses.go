package handlers

import "time"

// ErrorResponse is the body of every error answered to the clerk
type ErrorResponse struct {
	Erro string `json:"erro" example:"CPF inválido"`
}

// HealthResponse reports the state of the store and optional cache
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
