package handlers

import (
	"bytes"
	"context"
	"net/http"

	"agenda-escolar/internal/export"

	"github.com/gin-gonic/gin"
)

const pdfContentType = "application/pdf"

// exportRecords: mesma visibilidade e filtros do painel.
func (h *Handler) exportRecords(c *gin.Context) ([]export.Record, []string, bool) {
	f := parseFilters(c)
	list, err := h.appts.List(c.Request.Context(), currentCaller(c), f)
	if err != nil {
		h.fail(c, err, "/dashboard")
		return nil, nil, false
	}
	return export.NewRecords(list), f.Applied(), true
}

func (h *Handler) ExportExcel(c *gin.Context) {
	records, _, ok := h.exportRecords(c)
	if !ok {
		return
	}
	if len(records) == 0 {
		addFlash(c, "warning", "Nenhum agendamento encontrado para exportar.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteExcel(&buf, records); err != nil {
		h.fail(c, err, "/dashboard")
		return
	}
	h.archiveCopy(c.Request.Context(), export.ExcelFilename, export.ExcelContentType, buf.Bytes())

	c.Header("Content-Disposition", `attachment; filename="`+export.ExcelFilename+`"`)
	c.Data(http.StatusOK, export.ExcelContentType, buf.Bytes())
}

func (h *Handler) reportHTML(c *gin.Context) ([]byte, bool) {
	records, filters, ok := h.exportRecords(c)
	if !ok {
		return nil, false
	}
	var buf bytes.Buffer
	if err := export.RenderHTML(&buf, export.NewReport(records, filters, h.now())); err != nil {
		h.fail(c, err, "/dashboard")
		return nil, false
	}
	return buf.Bytes(), true
}

// PreviewPDF mostra o relatório em HTML, como ficará no PDF.
func (h *Handler) PreviewPDF(c *gin.Context) {
	html, ok := h.reportHTML(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (h *Handler) DownloadPDF(c *gin.Context) {
	html, ok := h.reportHTML(c)
	if !ok {
		return
	}
	pdf, err := h.pdf.RenderPDF(c.Request.Context(), html)
	if err != nil {
		h.log.Error().Err(err).Msg("pdf render failed")
		addFlash(c, "danger", "Erro ao gerar PDF.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	filename := export.PDFFilename(h.now())
	h.archiveCopy(c.Request.Context(), filename, pdfContentType, pdf)

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, pdfContentType, pdf)
}

// archiveCopy: falha no arquivamento não impede o download.
func (h *Handler) archiveCopy(ctx context.Context, filename, contentType string, data []byte) {
	if h.archive == nil {
		return
	}
	loc, err := h.archive.Archive(ctx, filename, contentType, data)
	if err != nil {
		h.log.Warn().Err(err).Str("file", filename).Msg("report archive failed")
		return
	}
	h.log.Info().Str("file", filename).Str("location", loc).Msg("report archived")
}
