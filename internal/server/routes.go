package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/txdecode/internal/fixture"
	"github.com/danmuck/txdecode/internal/observability"
	"github.com/danmuck/txdecode/internal/protocol"
	"github.com/danmuck/txdecode/internal/protocol/txn"
	"github.com/danmuck/txdecode/internal/render"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DecodeRequest is the JSON body of POST /decode. Format and Strict
// override the service configuration for this request only.
type DecodeRequest struct {
	Hex    string `json:"hex"`
	Format string `json:"format,omitempty"`
	Strict *bool  `json:"strict_substate_size,omitempty"`
}

// ErrorResponse describes a rejected transaction.
type ErrorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind,omitempty"`
	Offset   int    `json:"offset"`
	Field    string `json:"field,omitempty"`
	Expected int    `json:"expected,omitempty"`
	Found    int    `json:"found,omitempty"`
}

type FormatInfo struct {
	Version          string `json:"version"`
	LengthPrefix     int    `json:"length_prefix"`
	ReservedBytes    bool   `json:"reserved_bytes"`
	SubstateEnvelope bool   `json:"substate_envelope"`
	StrictEnvelope   bool   `json:"strict_envelope"`
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.ID,
			"version": Version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/formats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"default": s.cfg.Format,
			"formats": listFormats(),
		})
	})

	s.router.POST("/decode", s.requireToken, s.handleDecode)
}

func (s *Server) handleDecode(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.bodyLimit())

	req, buf, err := s.readRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := s.decoderFor(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := d.Decode(buf)
	if err != nil {
		c.Set(observability.ContextDecodeResult, protocol.KindName(err))
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err))
		return
	}
	c.Set(observability.ContextDecodeResult, observability.ResultOK)
	c.JSON(http.StatusOK, render.NewDocument(tx))
}

// readRequest accepts either a JSON DecodeRequest or a raw binary body with
// the format in the query string.
func (s *Server) readRequest(c *gin.Context) (DecodeRequest, []byte, error) {
	var req DecodeRequest
	if strings.HasPrefix(c.ContentType(), "application/octet-stream") {
		req.Format = c.Query("format")
		buf, err := io.ReadAll(c.Request.Body)
		return req, buf, err
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, nil, err
	}
	buf, err := fixture.DecodeHex(req.Hex)
	return req, buf, err
}

func (s *Server) decoderFor(req DecodeRequest) (*txn.Decoder, error) {
	cfg := s.cfg
	if req.Format != "" {
		cfg.Format = req.Format
	}
	if req.Strict != nil {
		cfg.StrictSubstateSize = req.Strict
	}
	logger := s.log
	return cfg.NewDecoder(&logger, observability.DecodeObserver{})
}

func errorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error(), Kind: protocol.KindName(err)}
	var de *protocol.DecodeError
	if errors.As(err, &de) {
		resp.Offset = de.Offset
		resp.Field = de.Field
		resp.Expected = de.Expected
		resp.Found = de.Found
	}
	return resp
}

func listFormats() []FormatInfo {
	out := make([]FormatInfo, 0, int(protocol.LatestVersion))
	for v := protocol.V1; v <= protocol.LatestVersion; v++ {
		f, err := protocol.FormatFor(v)
		if err != nil {
			continue
		}
		out = append(out, FormatInfo{
			Version:          v.String(),
			LengthPrefix:     f.LengthPrefix,
			ReservedBytes:    f.ReservedBytes,
			SubstateEnvelope: f.SubstateEnvelope,
			StrictEnvelope:   f.StrictEnvelope,
		})
	}
	return out
}
