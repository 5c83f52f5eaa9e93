package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mwiater/perfview/internal/chart"
	"github.com/mwiater/perfview/internal/export"
	"github.com/mwiater/perfview/internal/logging"
	"github.com/mwiater/perfview/internal/perflog"
	"github.com/mwiater/perfview/internal/report"
	"github.com/mwiater/perfview/internal/session"
	"github.com/mwiater/perfview/internal/summary"
)

func respondError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// current fetches the active session or answers 404.
func (s *Server) current(c *gin.Context) (*session.Session, bool) {
	sess, err := s.store.Current()
	if err != nil {
		respondError(c, http.StatusNotFound, err)
		return nil, false
	}
	return sess, true
}

// metricParam resolves ?metric=, defaulting to the configured metric.
func (s *Server) metricParam(c *gin.Context, key string) (perflog.Metric, bool) {
	if strings.TrimSpace(key) == "" {
		key = s.config.DefaultMetricKey()
	}
	m, err := perflog.ParseMetric(key)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return "", false
	}
	if !m.Chartable() {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: %s is not a numeric column", perflog.ErrUnknownMetric, m))
		return "", false
	}
	return m, true
}

func (s *Server) indexHandler(c *gin.Context) {
	page, err := report.GenerateInteractive(s.config.ReportTitleText())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) healthHandler(c *gin.Context) {
	_, err := s.store.Current()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "loaded": err == nil})
}

func (s *Server) uploadHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes())
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		respondError(c, http.StatusBadRequest, fmt.Errorf("unable to read upload: %w", err))
		return
	}

	headers := form.File["files"]
	files := make([]perflog.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Errorf("unable to open %s: %w", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Errorf("unable to read %s: %w", fh.Filename, err))
			return
		}
		files = append(files, perflog.File{Name: filepath.Base(fh.Filename), Data: data})
	}

	sess, err := session.New(c.Request.Context(), files)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	s.store.Replace(sess)
	logging.LogEvent("loaded session %s with %d capture logs", sess.ID, sess.Collection().Len())

	c.JSON(http.StatusCreated, gin.H{
		"id":       sess.ID,
		"datasets": sess.Collection().Names(),
		"metrics":  report.MetricOptions(),
		"summary":  sess.Summary(),
	})
}

func (s *Server) namesHandler(c *gin.Context) {
	sess, ok := s.current(c)
	if !ok {
		return
	}
	var names session.Names
	if err := c.ShouldBindJSON(&names); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := sess.SetNames(names); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, sess.Names())
}

func (s *Server) reportHandler(c *gin.Context) {
	sess, ok := s.current(c)
	if !ok {
		return
	}
	m, ok := s.metricParam(c, c.Query("metric"))
	if !ok {
		return
	}
	placement, err := summary.ParsePlacement(s.config.PlacementName())
	if err != nil {
		placement = summary.PlacementTrailing
	}
	c.JSON(http.StatusOK, report.BuildPayload(sess, report.Options{DefaultMetric: m, Placement: placement}))
}

func (s *Server) chartHandler(c *gin.Context) {
	sess, ok := s.current(c)
	if !ok {
		return
	}
	m, ok := s.metricParam(c, c.Query("metric"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Chart(m))
}

func (s *Server) renderChart(sess *session.Session, m perflog.Metric) ([]byte, error) {
	width, height := s.config.ChartSize()
	var buf bytes.Buffer
	err := chart.RenderPNG(&buf, sess.Chart(m), chart.RenderOptions{
		Title:  sess.Names().ReportName,
		Width:  width,
		Height: height,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) chartImageHandler(c *gin.Context) {
	sess, ok := s.current(c)
	if !ok {
		return
	}
	m, ok := s.metricParam(c, c.Query("metric"))
	if !ok {
		return
	}
	img, err := s.renderChart(sess, m)
	if errors.Is(err, chart.ErrNotEnoughPoints) {
		respondError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

func (s *Server) summaryHandler(c *gin.Context) {
	sess, ok := s.current(c)
	if !ok {
		return
	}
	placement, err := summary.ParsePlacement(c.DefaultQuery("placement", s.config.PlacementName()))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	table := sess.Summary()
	c.JSON(http.StatusOK, gin.H{
		"placement": placement,
		"table":     table,
		"layout":    table.Layout(placement, sess.Labels()),
	})
}

type exportRequest struct {
	Comment string `json:"comment" form:"comment"`
	Metric  string `json:"metric" form:"metric"`
}

func (s *Server) exportHandler(c *gin.Context) {
	sess, ok := s.current(c)
	if !ok {
		return
	}
	var req exportRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	m, ok := s.metricParam(c, req.Metric)
	if !ok {
		return
	}

	img, err := s.renderChart(sess, m)
	if err != nil {
		logging.LogDebug("exporting %s without chart image: %v", sess.ID, err)
		img = nil
	}

	bundle := sess.Bundle(req.Comment, m, img)
	var buf bytes.Buffer
	if _, err := export.Write(&buf, bundle); err != nil {
		logging.LogError(err, "export of session %s failed", sess.ID)
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", contentDisposition(export.ArchiveName(bundle.ReportName)))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// contentDisposition names an attachment with an ASCII fallback and, when the
// name is not plain ASCII, an RFC 5987 UTF-8 parameter.
func contentDisposition(name string) string {
	var fallback strings.Builder
	ascii := true
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			ascii = false
			fallback.WriteByte('_')
			continue
		}
		fallback.WriteRune(r)
	}
	header := `attachment; filename="` + fallback.String() + `"`
	if ascii {
		return header
	}
	return header + "; filename*=UTF-8''" + encodeExtValue(name)
}

// encodeExtValue percent-encodes every byte outside the RFC 5987 attr-char set.
func encodeExtValue(s string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
			strings.IndexByte("!#$&+-.^_`|~", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}
