package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"thanos/internal/catalog"
	"thanos/internal/logging"
	"thanos/internal/naming"
	"thanos/internal/organize"
	"thanos/internal/services"
)

// doneMarker terminates every organize progress stream, after the terminal
// event has been written.
const doneMarker = "[DONE]"

func (s *Server) handleHealth(c *gin.Context) {
	overall := "ok"
	dbStatus := "ok"
	dirStatus := "ok"
	status := http.StatusOK
	if err := s.store.Ping(c.Request.Context()); err != nil {
		overall = "degraded"
		dbStatus = err.Error()
		status = http.StatusServiceUnavailable
	}
	for _, dir := range []string{s.cfg.Paths.UploadDir, s.cfg.Paths.OrganizedDir} {
		if _, err := os.Stat(dir); err != nil {
			overall = "degraded"
			dirStatus = err.Error()
			status = http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(status, gin.H{
		"status":        overall,
		"database":      dbStatus,
		"directories":   dirStatus,
		"llmConfigured": s.cfg.LLM.APIKey != "",
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing file field"})
		return
	}

	name := naming.SafeName(header.Filename)
	dest, err := naming.EnsureUnique(filepath.Join(s.cfg.Paths.UploadDir, name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("resolve upload path: %v", err)})
		return
	}
	if err := c.SaveUploadedFile(header, dest); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("save upload: %v", err)})
		return
	}

	stored := filepath.Base(dest)
	record := &catalog.FileRecord{
		OriginalName: stored,
		CurrentName:  stored,
		OriginalPath: dest,
		CurrentPath:  dest,
		FileType:     fileTypeFor(header.Filename),
		MimeType:     mimeTypeFor(header.Filename, header.Header.Get("Content-Type")),
		FileSize:     header.Size,
	}
	if err := s.store.CreateFile(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("record upload: %v", err)})
		return
	}

	s.logger.Info("file uploaded",
		logging.String(logging.FieldFileID, record.ID),
		logging.String("name", record.CurrentName),
		logging.Int64("size", record.FileSize),
	)
	c.JSON(http.StatusCreated, newFileView(record))
}

func (s *Server) handleListFiles(c *gin.Context) {
	var filter catalog.FileFilter
	switch c.Query("organized") {
	case "":
	case "true":
		organized := true
		filter.Organized = &organized
	case "false":
		organized := false
		filter.Organized = &organized
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Error: "organized must be true or false"})
		return
	}

	records, err := s.store.ListFiles(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": newFileViews(records)})
}

func (s *Server) handleGetFile(c *gin.Context) {
	record, err := s.store.GetFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "file not found"})
		return
	}
	c.JSON(http.StatusOK, newFileView(record))
}

func (s *Server) handleDeleteFile(c *gin.Context) {
	deleted, err := s.store.SoftDeleteFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, errorResponse{Error: "file not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// organizeRequest carries optional organize metadata. An empty body is valid.
type organizeRequest struct {
	ExternalJobID string `json:"externalJobId"`
	Description   string `json:"description"`
}

// handleOrganize runs an organize job, streaming one JSON event per line. The
// stream always ends with the done marker, whatever the run's outcome.
func (s *Server) handleOrganize(c *gin.Context) {
	var req organizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	c.Writer.Header().Set("Content-Type", "application/x-ndjson")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.WriteHeader(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)
	encoder := json.NewEncoder(c.Writer)
	emit := func(event organize.Event) {
		if err := encoder.Encode(event); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	opts := organize.RunOptions{
		ExternalJobID: req.ExternalJobID,
		Description:   req.Description,
	}
	if _, err := s.runner.Run(c.Request.Context(), opts, emit); err != nil {
		s.logger.Warn("organize run failed", logging.Error(err))
	}

	fmt.Fprintln(c.Writer, doneMarker)
	if flusher != nil {
		flusher.Flush()
	}
}

func (s *Server) handleUndo(c *gin.Context) {
	var req undoRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.OrganizationID) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "organizationId is required"})
		return
	}

	result, err := s.undoer.Undo(c.Request.Context(), req.OrganizationID)
	if err != nil {
		c.JSON(statusForError(err), errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, undoResponse{
		Success:        true,
		FilesReverted:  result.FilesReverted,
		FoldersRemoved: result.FoldersRemoved,
		Message: fmt.Sprintf("Reverted %d files and removed %d empty folders",
			result.FilesReverted, result.FoldersRemoved),
	})
}

func (s *Server) handleListOrganizations(c *gin.Context) {
	orgs, err := s.store.ListOrganizations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	views := make([]organizationView, 0, len(orgs))
	for _, org := range orgs {
		view, err := newOrganizationView(org)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"organizations": views})
}

func (s *Server) handleGetOrganization(c *gin.Context) {
	org, err := s.store.GetOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if org == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "organization not found"})
		return
	}
	view, err := newOrganizationView(org)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, statsView{
		TotalFiles:       stats.TotalFiles,
		OrganizedFiles:   stats.OrganizedFiles,
		UnorganizedFiles: stats.UnorganizedFiles,
		TotalBytes:       stats.TotalBytes,
		ByCategory:       stats.ByCategory,
		Organizations:    stats.Organizations,
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}
	c.JSON(http.StatusOK, s.assistant.Reply(c.Request.Context(), req.Message))
}

// statusForError maps service error markers onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fileTypeFor derives the short type label from a filename extension.
func fileTypeFor(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ext
}

// mimeTypeFor prefers the extension-derived MIME type, then the client-sent
// one, then the generic fallback.
func mimeTypeFor(filename, declared string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		if base, _, err := mime.ParseMediaType(byExt); err == nil {
			return base
		}
		return byExt
	}
	if declared != "" {
		if base, _, err := mime.ParseMediaType(declared); err == nil {
			return base
		}
	}
	return "application/octet-stream"
}
