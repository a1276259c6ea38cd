package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the form page, registration, lookup and health
// endpoints. /salvar and /consultar are kept for older bookmarks.
func RegisterRoutes(r gin.IRouter, beneficiaries *BeneficiaryHandlers, health *HealthHandler) {
	r.GET("/", Index)
	r.GET("/health", health.HealthCheck)

	r.POST("/submit", beneficiaries.Submit)
	r.POST("/salvar", beneficiaries.Submit)

	r.GET("/lookup/:cpf", beneficiaries.Lookup)
	r.GET("/consultar/:cpf", beneficiaries.Lookup)
}
