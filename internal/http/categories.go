package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/services"
)

// CategoriesController serves levels and their pictures.
type CategoriesController struct {
	library       LevelLibrary
	auditor       Auditor
	maxMediaBytes int64
}

func NewCategoriesController(library LevelLibrary, auditor Auditor, maxMediaBytes int64) *CategoriesController {
	if maxMediaBytes <= 0 {
		maxMediaBytes = DefaultMaxMediaBytes
	}
	return &CategoriesController{
		library:       library,
		auditor:       auditor,
		maxMediaBytes: maxMediaBytes,
	}
}

// ListCategories handles GET /api/categories
func (cc *CategoriesController) ListCategories(c *gin.Context) {
	categories, err := cc.library.GetCategories(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}

	out := make([]CategoryResponse, len(categories))
	for i, summary := range categories {
		out[i] = newSummaryResponse(summary)
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": out,
		"total":      len(out),
	})
}

// GetCategory handles GET /api/categories/:id
func (cc *CategoriesController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := cc.library.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "category", "get category")
		return
	}
	c.JSON(http.StatusOK, newSummaryResponse(*category))
}

// CreateCategory handles POST /api/categories
// Expects multipart form data with a "title" field and a "picture" file.
func (cc *CategoriesController) CreateCategory(c *gin.Context) {
	input, ok := cc.bindInput(c)
	if !ok {
		return
	}

	category, err := cc.library.CreateCategory(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "category", "create category")
		return
	}
	respondCreated(c, newCategoryResponse(*category))
}

// UpdateCategory handles PUT /api/categories/:id
// Replaces title and picture; completion and creation time are kept.
func (cc *CategoriesController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	input, ok := cc.bindInput(c)
	if !ok {
		return
	}

	category, err := cc.library.UpdateCategory(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err, "category", "update category")
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(*category))
}

// DeleteCategory handles DELETE /api/categories/:id
// Removes the level and its words. Unknown ids succeed.
func (cc *CategoriesController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var title string
	existing, err := cc.library.GetCategory(ctx, id)
	if err == nil {
		title = existing.Title
	}

	if err := cc.library.DeleteCategory(ctx, id); err != nil {
		respondServiceError(c, err, "category", "delete category")
		return
	}

	if existing != nil {
		log.Printf("Deleted category %d (%s) with %d words", id, title, existing.WordCount)
		if cc.auditor != nil {
			cc.auditor.LogDelete("category", id, title)
		}
	}
	respondSuccess(c, "category deleted")
}

// MarkCompleted handles POST /api/categories/:id/complete
func (cc *CategoriesController) MarkCompleted(c *gin.Context) {
	cc.setCompleted(c, true)
}

// MarkIncomplete handles DELETE /api/categories/:id/complete
func (cc *CategoriesController) MarkIncomplete(c *gin.Context) {
	cc.setCompleted(c, false)
}

func (cc *CategoriesController) setCompleted(c *gin.Context, completed bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.library.SetCompleted(c.Request.Context(), id, completed); err != nil {
		respondServiceError(c, err, "category", "set category completion")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_completed": completed})
}

// GetPicture handles GET /api/categories/:id/picture
func (cc *CategoriesController) GetPicture(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := cc.library.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "category", "get category picture")
		return
	}
	serveMedia(c, category.Picture, "picture")
}

func (cc *CategoriesController) bindInput(c *gin.Context) (services.CategoryInput, bool) {
	picture, err := readFormFile(c, "picture", cc.maxMediaBytes)
	if err != nil {
		respondBadRequest(c, "invalid picture: "+err.Error())
		return services.CategoryInput{}, false
	}

	return services.CategoryInput{
		Title:       c.PostForm("title"),
		Picture:     picture.Data,
		PictureType: picture.ContentType,
		PictureName: picture.Name,
	}, true
}
