package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/service/export"
)

// ExportHandler serves the filtered records as downloads.
type ExportHandler struct {
	sheet      export.SheetWriter
	sheetRange string
	logger     *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter. sheet may be nil when
// the spreadsheet export is not configured.
func NewExportHandler(sheet export.SheetWriter, sheetRange string, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{sheet: sheet, sheetRange: sheetRange, logger: logger}
}

// Download streams the current filtered set as csv or txt.
func (h *ExportHandler) Download(c *gin.Context) {
	records := currentSession(c).Filtered()

	var (
		filename    string
		contentType string
		body        []byte
	)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		out, err := export.ToCSV(records)
		if err != nil {
			h.logger.Error("csv export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		filename, contentType, body = export.CSVFilename, export.CSVContentType, out
	case "txt":
		filename, contentType, body = export.TXTFilename, export.TXTContentType, []byte(export.ToTXT(records))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or txt"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	c.Data(http.StatusOK, contentType, body)
}

// Clipboard returns the TXT export for the client to copy.
func (h *ExportHandler) Clipboard(c *gin.Context) {
	records := currentSession(c).Filtered()
	c.JSON(http.StatusOK, gin.H{"text": export.ToTXT(records), "records": len(records)})
}

// Sheets replaces the export sheet with the current filtered set.
func (h *ExportHandler) Sheets(c *gin.Context) {
	if h.sheet == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spreadsheet export is not configured"})
		return
	}

	records := currentSession(c).Filtered()
	if err := export.ToSheet(c.Request.Context(), h.sheet, h.sheetRange, records); err != nil {
		h.logger.Error("sheet export failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not write the spreadsheet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": len(records), "range": h.sheetRange})
}
