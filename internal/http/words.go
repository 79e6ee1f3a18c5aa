package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/services"
)

// WordsController serves words with their image and audio.
type WordsController struct {
	library       LevelLibrary
	auditor       Auditor
	maxMediaBytes int64
}

func NewWordsController(library LevelLibrary, auditor Auditor, maxMediaBytes int64) *WordsController {
	if maxMediaBytes <= 0 {
		maxMediaBytes = DefaultMaxMediaBytes
	}
	return &WordsController{
		library:       library,
		auditor:       auditor,
		maxMediaBytes: maxMediaBytes,
	}
}

// ListWords handles GET /api/words
// Optional query parameter category_id restricts the list to one level.
func (wc *WordsController) ListWords(c *gin.Context) {
	categoryID, ok := parseOptionalQueryID(c, "category_id")
	if !ok {
		return
	}

	words, err := wc.library.GetWords(c.Request.Context(), categoryID)
	if err != nil {
		respondInternalError(c, err, "list words")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"words": newWordResponses(words),
		"total": len(words),
	})
}

// GetWord handles GET /api/words/:id
func (wc *WordsController) GetWord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	word, err := wc.library.GetWord(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "word", "get word")
		return
	}
	c.JSON(http.StatusOK, newWordResponse(*word))
}

// CreateWord handles POST /api/words
// Expects multipart form data: "text", optional "category_id", and the
// "image" and "audio" files.
func (wc *WordsController) CreateWord(c *gin.Context) {
	var categoryID *uint
	if raw := c.PostForm("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid category_id")
			return
		}
		value := uint(parsed)
		categoryID = &value
	}

	image, err := readFormFile(c, "image", wc.maxMediaBytes)
	if err != nil {
		respondBadRequest(c, "invalid image: "+err.Error())
		return
	}
	audio, err := readFormFile(c, "audio", wc.maxMediaBytes)
	if err != nil {
		respondBadRequest(c, "invalid audio: "+err.Error())
		return
	}

	word, err := wc.library.CreateWord(c.Request.Context(), services.WordInput{
		Text:       c.PostForm("text"),
		Audio:      audio.Data,
		AudioType:  audio.ContentType,
		AudioName:  audio.Name,
		Image:      image.Data,
		ImageType:  image.ContentType,
		ImageName:  image.Name,
		CategoryID: categoryID,
	})
	if err != nil {
		respondServiceError(c, err, "category", "create word")
		return
	}
	respondCreated(c, newWordResponse(*word))
}

// DeleteWord handles DELETE /api/words/:id
func (wc *WordsController) DeleteWord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, _ := wc.library.GetWord(ctx, id)

	if err := wc.library.DeleteWord(ctx, id); err != nil {
		respondServiceError(c, err, "word", "delete word")
		return
	}

	if existing != nil && wc.auditor != nil {
		wc.auditor.LogDelete("word", id, existing.Text)
	}
	respondSuccess(c, "word deleted")
}

// GetImage handles GET /api/words/:id/image
func (wc *WordsController) GetImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	word, err := wc.library.GetWord(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "word", "get word image")
		return
	}
	serveMedia(c, word.Image, "image")
}

// GetAudio handles GET /api/words/:id/audio
func (wc *WordsController) GetAudio(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	word, err := wc.library.GetWord(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "word", "get word audio")
		return
	}
	serveMedia(c, word.Audio, "audio")
}
