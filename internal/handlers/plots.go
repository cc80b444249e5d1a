package handlers

import (
	"bytes"
	"net/http"

	"gonum.org/v1/plot"

	"depot-router/internal/report"
)

// writePNG buffers the encoded plot before any header is written
func (h *Handler) writePNG(w http.ResponseWriter, p *plot.Plot) {
	var buf bytes.Buffer
	if err := report.WritePNG(&buf, p); err != nil {
		h.handleInternalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}
