package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/analysis"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/service"
	"github.com/gin-gonic/gin"
)

const (
	defaultPollInterval      = time.Second
	defaultKeepAliveInterval = 15 * time.Second
)

// Handler serves the optimization dashboard API
type Handler struct {
	svc               *service.DashboardService
	pollInterval      time.Duration
	keepAliveInterval time.Duration
}

// Option configures a Handler
type Option func(*Handler)

// WithStreamIntervals overrides the report stream's poll and keep-alive periods
func WithStreamIntervals(poll, keepAlive time.Duration) Option {
	return func(h *Handler) {
		h.pollInterval = poll
		h.keepAliveInterval = keepAlive
	}
}

// New creates a new handler
func New(svc *service.DashboardService, opts ...Option) *Handler {
	h := &Handler{
		svc:               svc,
		pollInterval:      defaultPollInterval,
		keepAliveInterval: defaultKeepAliveInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts every route under rg
func (h *Handler) Register(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	sessions.POST("", h.createSession)
	sessions.GET("/:id", h.getSession)
	sessions.DELETE("/:id", h.deleteSession)

	sessions.PUT("/:id/linear", h.putLinear)
	sessions.POST("/:id/linear/generate", h.generateLinear)
	sessions.PUT("/:id/transport", h.putTransport)

	sessions.GET("/:id/network/edges", h.listEdges)
	sessions.POST("/:id/network/edges", h.addEdge)
	sessions.DELETE("/:id/network/edges/:index", h.removeEdge)

	sessions.POST("/:id/linear/solve", h.solve(domain.ModuleLinear))
	sessions.POST("/:id/transport/solve", h.solve(domain.ModuleTransport))
	sessions.POST("/:id/network/solve", h.solve(domain.ModuleNetwork))

	sessions.GET("/:id/captures", h.captures)
	sessions.GET("/:id/report", h.report)
	sessions.GET("/:id/report/stream", h.StreamReport)

	rg.POST("/analysis/parse", h.parseAnalysis)
}

func (h *Handler) createSession(c *gin.Context) {
	session, err := h.svc.CreateSession(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *Handler) getSession(c *gin.Context) {
	session, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.svc.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) putLinear(c *gin.Context) {
	var draft domain.LinearDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	session, err := h.svc.SetLinearDraft(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"linear": session.Linear})
}

type generateLinearRequest struct {
	Objective   string `json:"objective"`
	Method      string `json:"method"`
	Variables   int    `json:"variables"`
	Constraints int    `json:"constraints"`
}

func (h *Handler) generateLinear(c *gin.Context) {
	var req generateLinearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	session, err := h.svc.GenerateLinearModel(c.Request.Context(), c.Param("id"), req.Objective, req.Method, req.Variables, req.Constraints)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"linear": session.Linear})
}

func (h *Handler) putTransport(c *gin.Context) {
	var draft domain.TransportDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	session, err := h.svc.SetTransportDraft(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transport": session.Transport})
}

func (h *Handler) listEdges(c *gin.Context) {
	graph, err := h.svc.Graph(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

// addEdgeRequest carries the raw form values; numbers are parsed server side
type addEdgeRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Weight   string `json:"weight"`
	Capacity string `json:"capacity"`
}

func (h *Handler) addEdge(c *gin.Context) {
	var req addEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	graph, err := h.svc.AddEdge(c.Request.Context(), c.Param("id"), req.From, req.To, req.Weight, req.Capacity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, graph)
}

func (h *Handler) removeEdge(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "edge index must be an integer")
		return
	}
	graph, err := h.svc.RemoveEdge(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

func (h *Handler) solve(module domain.ModuleID) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := h.svc.Solve(c.Request.Context(), c.Param("id"), module)
		if err != nil {
			writeError(c, err)
			return
		}
		view := out.Result.View()
		c.JSON(http.StatusOK, gin.H{
			"result":   view,
			"analysis": analysis.Parse(view.Narrative),
			"capture":  out.Capture,
		})
	}
}

func (h *Handler) captures(c *gin.Context) {
	statuses, err := h.svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": statuses})
}

func (h *Handler) report(c *gin.Context) {
	report, err := h.svc.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

type parseAnalysisRequest struct {
	Text string `json:"text"`
}

func (h *Handler) parseAnalysis(c *gin.Context) {
	var req parseAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": analysis.Parse(req.Text)})
}
