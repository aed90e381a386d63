package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/redants-101/nano-banana-ai/internal/app/http/middleware"
	"github.com/redants-101/nano-banana-ai/internal/i18n"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	MaxUploadBytes = 10 << 20
	MaxDimension   = 2048

	// MaxPixels caps the decoded size; a small file can declare huge dimensions.
	MaxPixels = 50_000_000
)

var errTooLarge = errors.New("upload exceeds size limit")

// Store persists an encoded image and returns a URL the model can fetch.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type Handler struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewHandler(store Store, logger zerolog.Logger) *Handler {
	return &Handler{store: store, logger: logger, now: time.Now}
}

// Upload handles POST /api/uploads with a multipart "file" field.
func (h *Handler) Upload(c *gin.Context) {
	locale := middleware.Locale(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": i18n.Message(i18n.MsgImageTooLarge, locale)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgInvalidImage, locale)})
		return
	}
	if fh.Size > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": i18n.Message(i18n.MsgImageTooLarge, locale)})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgInvalidImage, locale)})
		return
	}
	defer f.Close()

	raw, err := readLimited(f, MaxUploadBytes)
	if errors.Is(err, errTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": i18n.Message(i18n.MsgImageTooLarge, locale)})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgInvalidImage, locale)})
		return
	}

	data, contentType, err := normalize(raw)
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", fh.Filename).Msg("rejected upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgInvalidImage, locale)})
		return
	}

	key := h.objectKey(contentType)
	url, err := h.store.Put(c.Request.Context(), key, contentType, data)
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.Message(i18n.MsgUploadFailed, locale)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"url":         url,
		"contentType": contentType,
		"size":        len(data),
	})
}

func (h *Handler) objectKey(contentType string) string {
	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	now := h.now().UTC()
	return fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), now.Month(), uuid.NewString(), ext)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}

var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
}

// normalize decodes the upload, applies its EXIF orientation and shrinks it to
// fit MaxDimension. JPEGs stay JPEG; everything else is re-encoded as PNG.
func normalize(raw []byte) ([]byte, string, error) {
	sniffed := http.DetectContentType(raw)
	if !acceptedTypes[sniffed] {
		return nil, "", fmt.Errorf("unsupported content type %q", sniffed)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("image dimensions %dx%d exceed pixel limit", cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if sniffed == "image/jpeg" {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90))
	} else {
		sniffed = "image/png"
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), sniffed, nil
}
