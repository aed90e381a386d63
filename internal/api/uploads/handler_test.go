package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memStore struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (m *memStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	m.key, m.contentType, m.data = key, contentType, data
	if m.err != nil {
		return "", m.err
	}
	return "https://cdn.test/" + key, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, h *Handler, field string, data []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := gin.New()
	r.POST("/api/uploads", h.Upload)
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestUploadResizesLargeImages(t *testing.T) {
	store := &memStore{}
	w, out := upload(t, NewHandler(store, zerolog.Nop()), "file", pngBytes(t, 4096, 1024))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "image/png", store.contentType)
	assert.Regexp(t, `^uploads/\d{4}/\d{2}/[0-9a-f-]{36}\.png$`, store.key)
	assert.Equal(t, "https://cdn.test/"+store.key, out["url"])

	img, err := imaging.Decode(bytes.NewReader(store.data))
	require.NoError(t, err)
	assert.Equal(t, 2048, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}

func TestUploadKeepsSmallImages(t *testing.T) {
	store := &memStore{}
	w, _ := upload(t, NewHandler(store, zerolog.Nop()), "file", pngBytes(t, 64, 32))
	require.Equal(t, http.StatusOK, w.Code)

	img, err := imaging.Decode(bytes.NewReader(store.data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())
}

func TestUploadRejects(t *testing.T) {
	t.Run("not an image", func(t *testing.T) {
		w, out := upload(t, NewHandler(&memStore{}, zerolog.Nop()), "file", []byte("%PDF-1.4 hello"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "The file is not a supported image", out["error"])
	})

	t.Run("declared dimensions over pixel limit", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black}), nil))
		raw := buf.Bytes()
		// Logical screen width and height, little endian, right after "GIF89a".
		raw[6], raw[7] = 0x30, 0x75
		raw[8], raw[9] = 0x30, 0x75

		store := &memStore{}
		w, out := upload(t, NewHandler(store, zerolog.Nop()), "file", raw)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "The file is not a supported image", out["error"])
		assert.Empty(t, store.key)
	})

	t.Run("wrong field", func(t *testing.T) {
		w, _ := upload(t, NewHandler(&memStore{}, zerolog.Nop()), "image", pngBytes(t, 2, 2))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		big := append(pngBytes(t, 2, 2), make([]byte, MaxUploadBytes)...)
		w, _ := upload(t, NewHandler(&memStore{}, zerolog.Nop()), "file", big)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		w, _ := upload(t, NewHandler(&memStore{err: errors.New("s3 down")}, zerolog.Nop()), "file", pngBytes(t, 2, 2))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
