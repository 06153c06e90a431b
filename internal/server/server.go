package server

import (
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/common"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/partner"
	"github.com/joshu-sajeev/recolour/internal/photoset"
	"github.com/joshu-sajeev/recolour/internal/storage/postgres"
	"github.com/joshu-sajeev/recolour/internal/ticket"
	"github.com/joshu-sajeev/recolour/middleware"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(db *gorm.DB, cfg *config.AppConfig) *gin.Engine {
	jobRepo := postgres.NewJobRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	partnerRepo := postgres.NewPartnerRepository(db)
	catalog := photoset.NewCatalog(cfg.AssetsDir)

	jobs := job.NewJobHandler(job.NewJobService(jobRepo))
	tickets := ticket.NewTicketHandler(ticket.NewTicketService(ticketRepo, jobRepo, partnerRepo, catalog))
	partners := partner.NewPartnerHandler(partner.NewPartnerService(partnerRepo, ticketRepo, jobRepo))
	photosets := photoset.NewPhotosetHandler(catalog)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(corsMiddleware(cfg.CORSOrigins))
	}
	r.Use(
		middleware.TimeoutMiddleware(cfg.RequestTimeout),
		middleware.ErrorHandler(),
	)

	r.GET("/healthz", health(db))

	if info, err := os.Stat(cfg.AssetsDir); err == nil && info.IsDir() {
		r.Static("/assets", cfg.AssetsDir)
	}

	operator := middleware.RequireRole(config.RoleOperator)
	manager := middleware.RequireRole(config.RoleManager)

	api := r.Group("/api")
	{
		api.GET("/partners", partners.List)
		api.GET("/photosets", photosets.List)

		api.GET("/tickets", tickets.List)
		api.GET("/tickets/:id", tickets.Get)
		api.POST("/tickets", operator, tickets.Create)
		api.POST("/tickets/:id/send", operator, tickets.Send)
		api.POST("/tickets/:id/action", tickets.Action)

		api.GET("/library/approved", tickets.Approved)
		api.GET("/overview/partners", manager, partners.Overview)

		api.GET("/jobs", jobs.List)
		api.GET("/jobs/:id", jobs.Get)
	}

	return r
}

// corsMiddleware lets the separately served front-end call the API with
// the role header.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RoleHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.Error(common.Errf(http.StatusServiceUnavailable, "database unavailable"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
