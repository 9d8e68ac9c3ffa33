package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lguhealth/brgycare/internal/config"
	"github.com/lguhealth/brgycare/pkg/auth"
	"github.com/lguhealth/brgycare/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	verifier *auth.Verifier,
	collector *metrics.Collector,
	immunizations *ImmunizationHandler,
	vaccines *VaccineHandler,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(metricsMiddleware(collector))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")
	api.Use(authMiddleware(verifier))
	{
		api.GET("/children/:id/vaccines", immunizations.ListAvailableVaccines)
		api.GET("/children/:id/vaccines/:vaccineId/doses", immunizations.ListAvailableDoses)

		api.POST("/immunizations", immunizations.ScheduleDose)
		api.GET("/immunizations", immunizations.ListDoses)
		api.GET("/immunizations/:id", immunizations.GetDose)
		api.POST("/immunizations/:id/complete", immunizations.CompleteDose)
		api.POST("/immunizations/:id/miss", immunizations.MarkDoseMissed)
		api.POST("/immunizations/:id/reschedule", immunizations.RescheduleDose)

		api.GET("/vaccines", vaccines.ListVaccines)
		api.POST("/vaccines", vaccines.CreateVaccine)
		api.GET("/vaccines/low-stock", vaccines.ListLowStock)
		api.GET("/vaccines/:id", vaccines.GetVaccine)
		api.POST("/vaccines/:id/restock", vaccines.Restock)
		api.POST("/vaccines/:id/adjust", vaccines.AdjustStock)
		api.GET("/vaccines/:id/movements", vaccines.ListMovements)
	}

	return r
}
