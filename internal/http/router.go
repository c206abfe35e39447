/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sprintdeck/sprintdeck/internal/config"
)

func NewRouter(cfg config.Config, log zerolog.Logger, h *Handlers) *gin.Engine {
	if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Next()
		log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
	})

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	api.POST("/sessions", h.CreateSession)
	api.DELETE("/sessions/:id", h.DeleteSession)

	s := api.Group("/sessions/:id")
	s.POST("/import", h.Import)
	s.POST("/import/previous", h.ImportPrevious)
	s.POST("/reset", h.Reset)

	s.GET("/report", h.Report)
	s.GET("/tickets", h.Tickets)
	s.GET("/hierarchy", h.Hierarchy)

	s.GET("/devs", h.DevLoads)
	s.POST("/devs", h.AddDev)
	s.PUT("/devs/:name", h.UpdateDevCapacity)
	s.DELETE("/devs/:name", h.RemoveDev)

	s.PATCH("/tickets/:ticketID", h.UpdateTicket)
	s.PUT("/tickets/:ticketID/assignee", h.UpdateTicketAssignee)

	s.GET("/summary", h.GetSummary)
	s.PUT("/summary", h.SetSummary)
	s.GET("/summary/text", h.SummaryText)
	s.POST("/summary/draft", h.DraftSummary)

	return r
}
