package insight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	appcfg "github.com/modassist/core/internal/config"
	"github.com/modassist/core/internal/middleware"
	"github.com/modassist/core/internal/modules/processing/markdown"
	"github.com/modassist/core/internal/pkg/response"
	"go.uber.org/zap"
)

const defaultMode = "website"

// Handler exposes the comment pipeline over HTTP.
type Handler struct {
	cfg *appcfg.AppConfig
	log *zap.Logger
	svc *Service
}

func NewHandler(cfg *appcfg.AppConfig, log *zap.Logger, svc *Service) *Handler {
	return &Handler{cfg: cfg, log: log, svc: svc}
}

// RegisterRoutes mounts the insight endpoints under the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/insight/comment", h.AnalyzeComment)
	group.POST("/insight/comment/preview", h.PreviewComment)
}

// commentRequest accepts the historical field aliases for the comment text.
// JSON matching is case-insensitive, so "Comment" binds to the comment field.
type commentRequest struct {
	Text      string `json:"text"`
	Comment   string `json:"comment"`
	Kommentar string `json:"kommentar"`
	Mode      string `json:"mode"`
}

func (r commentRequest) commentText() string {
	for _, candidate := range []string{r.Text, r.Comment, r.Kommentar} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

func (r commentRequest) modeOrDefault() string {
	if v := strings.TrimSpace(r.Mode); v != "" {
		return v
	}
	return defaultMode
}

// AnalyzeComment runs the full pipeline for one comment and returns the
// rendered moderation document.
func (h *Handler) AnalyzeComment(c *gin.Context) {
	result, ok := h.runPipeline(c)
	if !ok {
		return
	}
	response.Output(c, result.Document, h.buildMeta(c, result))
}

// PreviewComment runs the same pipeline and adds an HTML rendering of the
// document for moderator display.
func (h *Handler) PreviewComment(c *gin.Context) {
	result, ok := h.runPipeline(c)
	if !ok {
		return
	}

	html, err := markdown.RenderHTML(result.Document)
	if err != nil {
		h.log.Error("html preview failed", zap.Error(err), zap.String("request_id", middleware.GetRequestID(c)))
		response.InternalError(c, "preview rendering failed")
		return
	}

	response.OK(c, gin.H{
		"output": result.Document,
		"html":   html,
		"meta":   h.buildMeta(c, result),
	})
}

func (h *Handler) runPipeline(c *gin.Context) (*Result, bool) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return nil, false
	}

	text := req.commentText()
	if err := ValidateInput(text, h.cfg.MaxInputChars); err != nil {
		response.BadRequest(c, inputErrorMessage(err, h.cfg.MaxInputChars))
		return nil, false
	}

	result, err := h.svc.Analyze(c.Request.Context(), text, req.modeOrDefault())
	if err != nil {
		requestID := middleware.GetRequestID(c)
		switch {
		case errors.Is(err, ErrNoProvider):
			h.log.Error("analysis rejected, no provider", zap.String("request_id", requestID))
			response.InternalError(c, "missing AI provider credentials")
		case errors.Is(err, ErrKnowledgeUnavailable):
			h.log.Error("analysis failed, knowledge base unavailable", zap.Error(err), zap.String("request_id", requestID))
			response.InternalError(c, "knowledge base unavailable, check knowledge_path")
		default:
			h.log.Error("analysis failed", zap.Error(err), zap.String("request_id", requestID))
			response.InternalError(c, "comment analysis failed")
		}
		return nil, false
	}

	return result, true
}

func (h *Handler) buildMeta(c *gin.Context, result *Result) response.Meta {
	return response.Meta{
		Model:     result.Model,
		Category:  string(result.Category),
		RequestID: middleware.GetRequestID(c),
		Attempts:  result.Attempts,
		Warnings:  result.Warnings,
	}
}

func inputErrorMessage(err error, maxChars int) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "comment text is required"
	case errors.Is(err, ErrInputTooLong):
		return fmt.Sprintf("comment text exceeds the maximum length of %d characters", maxChars)
	case errors.Is(err, ErrCredentialLike):
		return "comment text appears to contain a credential and was rejected"
	default:
		return "invalid comment text"
	}
}
