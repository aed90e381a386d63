package generate

import (
	"context"
	"errors"
	"net/http"

	"github.com/redants-101/nano-banana-ai/internal/app/http/middleware"
	"github.com/redants-101/nano-banana-ai/internal/domain/generations"
	"github.com/redants-101/nano-banana-ai/internal/i18n"
	"github.com/redants-101/nano-banana-ai/internal/imagegen"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Editor is the model client.
type Editor interface {
	Edit(ctx context.Context, req imagegen.Request) (*imagegen.Result, error)
}

// GenerationRecorder stores one row per successful generation.
type GenerationRecorder interface {
	Record(ctx context.Context, g *generations.ImageGeneration) error
}

type Handler struct {
	editor      Editor
	generations GenerationRecorder
	logger      zerolog.Logger
}

// NewHandler wires the handler. generations may be nil.
func NewHandler(editor Editor, gens GenerationRecorder, logger zerolog.Logger) *Handler {
	return &Handler{editor: editor, generations: gens, logger: logger}
}

type generateRequest struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
	Locale   string `json:"locale"`
}

// GenerateImage handles POST /api/generate-image.
func (h *Handler) GenerateImage(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgInvalidRequest, middleware.Locale(c))})
		return
	}
	if l, ok := i18n.Parse(body.Locale); ok {
		middleware.SetLocale(c, l)
	}
	locale := middleware.Locale(c)

	if body.ImageURL == "" || body.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgMissingInputs, locale)})
		return
	}

	result, err := h.editor.Edit(c.Request.Context(), imagegen.Request{ImageURL: body.ImageURL, Prompt: body.Prompt})
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("image generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   i18n.Message(i18n.MsgFailed, locale),
			"details": failureDetails(err, locale),
		})
		return
	}

	h.record(c, body.Prompt, result)

	text := result.Text
	if text == "" {
		if result.ImageURL != "" {
			text = i18n.Message(i18n.MsgImageGenerated, locale)
		} else {
			text = i18n.Message(i18n.MsgNoContent, locale)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"result":   text,
		"imageUrl": result.ImageURL,
		"message":  i18n.Message(i18n.MsgSuccess, locale),
		"debug": gin.H{
			"hasContent": result.Text != "",
			"hasImage":   result.ImageURL != "",
		},
	})
}

func (h *Handler) record(c *gin.Context, prompt string, result *imagegen.Result) {
	userID := middleware.UserID(c)
	if h.generations == nil || userID == "" {
		return
	}
	err := h.generations.Record(c.Request.Context(), &generations.ImageGeneration{
		UserID:   userID,
		Model:    result.Model,
		Prompt:   prompt,
		HasImage: result.ImageURL != "",
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("record generation")
	}
}

func failureDetails(err error, locale i18n.Locale) string {
	var apiErr *imagegen.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.StatusCode)
	case errors.Is(err, imagegen.ErrNotConfigured):
		return i18n.Message(i18n.MsgModelNotConfigured, locale)
	case errors.Is(err, imagegen.ErrInvalidResponse):
		return i18n.Message(i18n.MsgInvalidResponse, locale)
	default:
		return i18n.Message(i18n.MsgUnknownError, locale)
	}
}
