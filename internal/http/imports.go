package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/importers"
	"github.com/tomfrance/sacha/internal/storage"
	"github.com/tomfrance/sacha/internal/tasks"
	"github.com/tomfrance/sacha/internal/utils"
)

const (
	defaultImportListLimit = 20
	maxImportListLimit     = 100
)

// ImportsController accepts level bundles and reports on import sessions.
type ImportsController struct {
	runner         ImportRunner
	spool          UploadSpool
	queue          TaskQueue
	maxUploadBytes int64
}

// NewImportsController creates the controller. A nil queue runs every
// import inside the request.
func NewImportsController(runner ImportRunner, spool UploadSpool, queue TaskQueue, maxUploadBytes int64) *ImportsController {
	return &ImportsController{
		runner:         runner,
		spool:          spool,
		queue:          queue,
		maxUploadBytes: maxUploadBytes,
	}
}

// ImportResultResponse is the outcome of an import run inside the request.
type ImportResultResponse struct {
	LevelsTotal       int                      `json:"levels_total"`
	CategoriesCreated int                      `json:"categories_created"`
	WordsCreated      int                      `json:"words_created"`
	WordsFailed       int                      `json:"words_failed"`
	CategoryIDs       []uint                   `json:"category_ids"`
	Warnings          []entities.ImportWarning `json:"warnings"`
	Summary           string                   `json:"summary"`
}

func newImportResultResponse(r importers.Result) ImportResultResponse {
	ids := r.CategoryIDs
	if ids == nil {
		ids = []uint{}
	}
	warnings := r.Warnings
	if warnings == nil {
		warnings = []entities.ImportWarning{}
	}
	return ImportResultResponse{
		LevelsTotal:       r.LevelsTotal,
		CategoriesCreated: r.CategoriesCreated,
		WordsCreated:      r.WordsCreated,
		WordsFailed:       r.WordsFailed,
		CategoryIDs:       ids,
		Warnings:          warnings,
		Summary:           r.Summary(),
	}
}

// Upload handles POST /api/imports
// Expects a multipart form with the ZIP bundle in the "file" field.
func (ic *ImportsController) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file is required")
		return
	}

	src, err := header.Open()
	if err != nil {
		respondBadRequest(c, "failed to read uploaded file")
		return
	}
	info, err := ic.spool.Save(src, ic.maxUploadBytes)
	src.Close()
	if errors.Is(err, storage.ErrTooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, "archive exceeds the upload limit")
		return
	}
	if err != nil {
		respondInternalError(c, err, "store upload")
		return
	}

	ctx := c.Request.Context()
	archiveName := utils.UploadName(header.Filename)
	session, err := ic.runner.Prepare(ctx, entities.ImportSourceHTTP, archiveName, info.Path)
	if err != nil {
		ic.removeUpload(info.Path)
		respondInternalError(c, err, "prepare import")
		return
	}
	log.Printf("[IMPORT] Received %s (%d bytes) as session %d", archiveName, info.Size, session.ID)

	if ic.queue != nil {
		taskID, err := ic.queue.Enqueue(ctx, tasks.ImportArchiveTask{SessionID: session.ID})
		if err == nil {
			if err := ic.runner.AttachTask(ctx, session.ID, taskID); err != nil {
				log.Printf("[IMPORT] Session %d: failed to record task %s: %v", session.ID, taskID, err)
			}
			session.TaskID = taskID
			session.Source = entities.ImportSourceTask
			respondAccepted(c, "import queued", session)
			return
		}
		log.Printf("[IMPORT] Session %d: enqueue failed, importing inline: %v", session.ID, err)
	}

	ic.runInline(c, session.ID, info.Path)
}

// runInline imports the archive before answering. A disconnecting client
// does not interrupt the import.
func (ic *ImportsController) runInline(c *gin.Context, sessionID uint, path string) {
	defer ic.removeUpload(path)

	session, result, err := ic.runner.Run(context.WithoutCancel(c.Request.Context()), sessionID, nil)
	if session == nil {
		respondInternalError(c, err, "run import")
		return
	}

	body := gin.H{
		"session": session,
		"result":  newImportResultResponse(result),
	}
	if err != nil {
		body["error"] = err.Error()
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (ic *ImportsController) removeUpload(path string) {
	if err := ic.spool.Remove(path); err != nil {
		log.Printf("[IMPORT] Failed to remove upload %s: %v", path, err)
	}
}

// GetImport handles GET /api/imports/:id
func (ic *ImportsController) GetImport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := ic.runner.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "import session", "get import session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListImports handles GET /api/imports
// Optional query parameter limit (default 20, max 100).
func (ic *ImportsController) ListImports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultImportListLimit)))
	if err != nil || limit < 1 {
		limit = defaultImportListLimit
	}
	if limit > maxImportListLimit {
		limit = maxImportListLimit
	}

	sessions, err := ic.runner.List(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, err, "list import sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imports": sessions,
		"total":   len(sessions),
	})
}
