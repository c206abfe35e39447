/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sprintdeck/sprintdeck/internal/config"
	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/metrics"
	"github.com/sprintdeck/sprintdeck/internal/parser"
	"github.com/sprintdeck/sprintdeck/internal/session"
	"github.com/sprintdeck/sprintdeck/internal/store"
)

// summaryDrafter is the seam toward the LLM adapter; nil or disabled means
// the draft endpoint answers 503.
type summaryDrafter interface {
	Enabled() bool
	DraftSummary(ctx context.Context, m metrics.Metrics, sum domain.ExecutiveSummary) (string, error)
}

type Handlers struct {
	cfg config.Config
	log zerolog.Logger
	mgr *session.Manager
	llm summaryDrafter
}

func NewHandlers(cfg config.Config, log zerolog.Logger, mgr *session.Manager, llm summaryDrafter) *Handlers {
	return &Handlers{cfg: cfg, log: log, mgr: mgr, llm: llm}
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "sessions": h.mgr.Count()})
}

func (h *Handlers) CreateSession(c *gin.Context) {
	id, _, err := h.mgr.Create()
	if err != nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handlers) DeleteSession(c *gin.Context) {
	h.mgr.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// sessionStore resolves the session id path param, answering 404 itself when
// the session is gone (expired or never existed).
func (h *Handlers) sessionStore(c *gin.Context) (*store.Store, bool) {
	st, ok := h.mgr.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return nil, false
	}
	return st, true
}

type importRequest struct {
	Data   string `json:"data"`
	Format string `json:"format"` // "xml", "text" or empty for auto
}

func (h *Handlers) parseImport(c *gin.Context) ([]domain.Ticket, bool) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if h.cfg.MaxImportBytes > 0 && len(req.Data) > h.cfg.MaxImportBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "import too large"})
		return nil, false
	}
	var tickets []domain.Ticket
	var err error
	switch req.Format {
	case "xml":
		tickets, err = parser.ParseXML(req.Data)
	case "text":
		tickets = parser.ParseText(req.Data)
	default:
		tickets, err = parser.Parse(req.Data)
	}
	if err != nil {
		// Parse failures are local and recoverable; the session state is
		// left exactly as it was.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if len(tickets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no tickets found in input"})
		return nil, false
	}
	return tickets, true
}

func (h *Handlers) Import(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	tickets, ok := h.parseImport(c)
	if !ok {
		return
	}
	st.ImportTickets(tickets)
	c.JSON(http.StatusOK, gin.H{"imported": len(tickets)})
}

func (h *Handlers) ImportPrevious(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	tickets, ok := h.parseImport(c)
	if !ok {
		return
	}
	st.ImportPrevious(tickets)
	c.JSON(http.StatusOK, gin.H{"stored": len(tickets)})
}

func (h *Handlers) Reset(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	st.Reset()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Report is the one-shot read model: the snapshot, the derived metrics and
// the per-story risk/value quadrants. Exporters read it once and proceed.
func (h *Handlers) Report(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	snap := st.Snapshot()
	m := metrics.Compute(snap.UserStories, snap.Devs)
	quadrants := make(map[string]metrics.Quadrant, len(snap.UserStories))
	for _, s := range snap.UserStories {
		quadrants[s.ID] = metrics.StoryQuadrant(s)
	}
	c.JSON(http.StatusOK, gin.H{
		"isLoaded":         snap.Loaded,
		"tickets":          snap.Tickets,
		"userStories":      snap.UserStories,
		"hierarchy":        snap.Hierarchy,
		"devs":             snap.Devs,
		"previousCount":    len(snap.Previous),
		"executiveSummary": snap.Summary,
		"metrics":          m,
		"quadrants":        quadrants,
	})
}

func (h *Handlers) Tickets(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.Snapshot().Tickets)
}

func (h *Handlers) Hierarchy(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.Snapshot().Hierarchy)
}

func (h *Handlers) DevLoads(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.Metrics().DevLoads)
}

func (h *Handlers) AddDev(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Capacity float64 `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st.AddDev(req.Name, req.Capacity)
	c.JSON(http.StatusOK, st.Snapshot().Devs)
}

func (h *Handlers) UpdateDevCapacity(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	var req struct {
		Capacity float64 `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st.UpdateDevCapacity(c.Param("name"), req.Capacity)
	c.JSON(http.StatusOK, st.Snapshot().Devs)
}

func (h *Handlers) RemoveDev(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	st.RemoveDev(c.Param("name"))
	c.JSON(http.StatusOK, st.Snapshot().Devs)
}

func (h *Handlers) UpdateTicket(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	var patch store.TicketPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !st.UpdateTicket(c.Param("ticketID"), patch) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) UpdateTicketAssignee(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	var req struct {
		Assignee string `json:"assignee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !st.UpdateTicketAssignee(c.Param("ticketID"), req.Assignee) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) GetSummary(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st.Snapshot().Summary)
}

func (h *Handlers) SetSummary(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	var sum domain.ExecutiveSummary
	if err := c.ShouldBindJSON(&sum); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st.SetSummary(sum)
	c.JSON(http.StatusOK, sum)
}

func (h *Handlers) SummaryText(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, st.RenderSummary())
}

func (h *Handlers) DraftSummary(c *gin.Context) {
	st, ok := h.sessionStore(c)
	if !ok {
		return
	}
	if h.llm == nil || !h.llm.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "summary drafting not configured"})
		return
	}
	snap := st.Snapshot()
	m := metrics.Compute(snap.UserStories, snap.Devs)
	draft, err := h.llm.DraftSummary(c.Request.Context(), m, snap.Summary)
	if err != nil {
		h.log.Error().Err(err).Msg("summary draft failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}
