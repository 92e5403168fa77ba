package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medscan/facesheet-extractor/constants"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// uploadPage accepts a multipart page image, runs extraction on it and
// returns the extracted fields.
func (s *Server) uploadPage(c *gin.Context) {
	fh, err := c.FormFile("page")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'page' is required"})
		return
	}
	if !constants.IsImageExt(filepath.Ext(fh.Filename)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported page format"})
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		s.logger.Error("upload dir", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	dst := filepath.Join(s.uploadDir, uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		s.logger.Error("save upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	defer func() { _ = os.Remove(dst) }()

	pageID, fields, err := s.proc.ProcessPage(c.Request.Context(), dst)
	if err != nil {
		s.logger.Error("process page failed", "file", fh.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "extraction failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page_id": pageID,
		"fields":  fields,
	})
}

func (s *Server) listPages(c *gin.Context) {
	pages, err := s.pages.List(c.Request.Context())
	if err != nil {
		s.logger.Error("list pages failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list pages failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (s *Server) pageFields(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page id"})
		return
	}
	if _, err := s.pages.GetByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	fields, err := s.pages.ListFields(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("list fields failed", "page_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list fields failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"page_id": id, "fields": fields})
}

func (s *Server) exportXLSX(c *gin.Context) {
	b, err := s.export.ExportXLSX(c.Request.Context())
	if err != nil {
		s.logger.Error("export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="facesheets.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}
