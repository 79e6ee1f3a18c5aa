package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/services"
)

const defaultMediaType = "application/octet-stream"

// serveMedia writes a stored payload with its MIME type. Payloads are
// immutable once stored, except a level picture replaced by an update, so
// clients may cache them briefly.
func serveMedia(c *gin.Context, m entities.Media, resource string) {
	if m.IsEmpty() {
		respondNotFound(c, resource)
		return
	}

	contentType := m.MIMEType
	if contentType == "" {
		contentType = defaultMediaType
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Header("Content-Length", strconv.Itoa(m.Size()))
	c.Data(http.StatusOK, contentType, m.Data)
}

// CategoryResponse is a level as sent to clients. The picture bytes are
// fetched separately from PictureURL.
type CategoryResponse struct {
	entities.Category
	WordCount  *int64 `json:"word_count,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
}

// WordResponse is a word as sent to clients, with the URLs of its media.
type WordResponse struct {
	entities.Word
	ImageURL string `json:"image_url,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
}

func newCategoryResponse(category entities.Category) CategoryResponse {
	resp := CategoryResponse{Category: category}
	if !category.Picture.IsEmpty() {
		resp.PictureURL = fmt.Sprintf("/api/categories/%d/picture", category.ID)
	}
	return resp
}

func newSummaryResponse(summary services.CategorySummary) CategoryResponse {
	resp := newCategoryResponse(summary.Category)
	count := summary.WordCount
	resp.WordCount = &count
	return resp
}

func newWordResponse(word entities.Word) WordResponse {
	resp := WordResponse{Word: word}
	if !word.Image.IsEmpty() {
		resp.ImageURL = fmt.Sprintf("/api/words/%d/image", word.ID)
	}
	if !word.Audio.IsEmpty() {
		resp.AudioURL = fmt.Sprintf("/api/words/%d/audio", word.ID)
	}
	return resp
}

func newWordResponses(words []entities.Word) []WordResponse {
	out := make([]WordResponse, len(words))
	for i, word := range words {
		out[i] = newWordResponse(word)
	}
	return out
}
