package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/qadash/pkg/infrastructure/export"
)

// ExportResponse points at a one-shot xlsx download
type ExportResponse struct {
	Token       string `json:"token"`
	SnapshotID  string `json:"snapshotId"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"downloadUrl"`
}

// Export renders the current dashboard as xlsx and returns a download token
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	snapshot := h.dashboard.Snapshot()

	var buf bytes.Buffer
	if err := h.exporter.Write(snapshot, &buf); err != nil {
		h.writeError(c, fmt.Errorf("export failed: %w", err))
		return
	}

	filename := export.Filename(snapshot)
	token := h.downloads.put(filename, buf.Bytes(), exportDownloadTTL)
	h.logger.Info("export ready", "snapshot", snapshot.ID, "bytes", buf.Len())

	c.JSON(http.StatusOK, ExportResponse{
		Token:       token,
		SnapshotID:  snapshot.ID,
		Filename:    filename,
		DownloadURL: "/api/export/download/" + token,
	})
}

// DownloadExport serves a rendered export once
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", item.filename))
	c.Data(http.StatusOK, export.ContentType, item.data)
}
