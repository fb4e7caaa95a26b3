package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"telephony-insights-go/internal/annotate"
	"telephony-insights-go/internal/logger"
	"telephony-insights-go/internal/processor"
	"telephony-insights-go/internal/repository"
)

// Store is the read side of the annotation repository.
type Store interface {
	GetRun(runID string) (*repository.Run, error)
	ListByRun(runID string) ([]repository.AnnotationRow, error)
	LabelCounts() (map[string]map[string]int, error)
}

type TextRequest struct {
	Text *string `json:"text" binding:"required"`
}

// Handler serves the annotators over HTTP.
type Handler struct {
	annotators map[string]annotate.Annotator
	order      []annotate.Annotator
	store      Store
	log        *logger.Logger
}

// NewHandler routes POST /{name} to the annotator with that Name. store
// may be nil, in which case the run endpoints are not registered.
func NewHandler(annotators []annotate.Annotator, store Store, log *logger.Logger) *Handler {
	h := &Handler{
		annotators: make(map[string]annotate.Annotator, len(annotators)),
		order:      annotators,
		store:      store,
		log:        log.Component("handler"),
	}
	for _, a := range annotators {
		h.annotators[a.Name()] = a
	}
	return h
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(h.requestLogger())

	for name := range h.annotators {
		r.POST("/"+name, h.annotateWith(name))
	}
	r.POST("/annotate", h.AnnotateAll)

	if h.store != nil {
		r.GET("/runs/:id", h.GetRun)
		r.GET("/stats", h.GetStats)
	}

	r.GET("/healthz", h.HealthCheck)
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := logger.RequestID(c.Request)
		c.Request.Header.Set(logger.RequestIDHeader, id)
		c.Header(logger.RequestIDHeader, id)

		start := time.Now()
		c.Next()

		entry := h.log.WithRequest(c.Request).
			WithField("status", c.Writer.Status()).
			WithField("duration_ms", time.Since(start).Milliseconds())
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request handled")
	}
}

func (h *Handler) annotateWith(name string) gin.HandlerFunc {
	a := h.annotators[name]
	return func(c *gin.Context) {
		var req TextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body must be JSON with a text field"})
			return
		}

		res, err := a.Annotate(c.Request.Context(), *req.Text)
		if err != nil {
			h.log.WithError(err).WithField("annotator", name).Error("annotation failed")
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// AnnotateAll runs every annotator on one text. Partial failures are
// reported inline; the status is an error only when all of them failed.
func (h *Handler) AnnotateAll(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be JSON with a text field"})
		return
	}

	out := processor.Process(c.Request.Context(), *req.Text, h.order...)
	if len(h.order) > 0 && len(out.Results) == 0 {
		c.JSON(statusFor(out.Err(h.order[0].Name())), out)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetRun(c *gin.Context) {
	runID := c.Param("id")
	run, err := h.store.GetRun(runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	rows, err := h.store.ListByRun(runID)
	if err != nil {
		h.log.WithError(err).Error("failed to list run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list run"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "annotations": rows, "total": len(rows)})
}

func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.store.LabelCounts()
	if err != nil {
		h.log.WithError(err).Error("failed to get stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": counts})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	names := make([]string, 0, len(h.order))
	for _, a := range h.order {
		names = append(names, a.Name())
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "annotators": names})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, annotate.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
