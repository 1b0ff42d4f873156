package server

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/katalvlaran/mensura/converter"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnitNotFound     = "UNIT_NOT_FOUND"
	CodeConversionFailed = "CONVERSION_FAILED"
	CodeNonFiniteResult  = "NON_FINITE_RESULT"
	CodeInternal         = "INTERNAL"
)

// ConvertRequest is the query string of GET /convert.
type ConvertRequest struct {
	Value *float64 `form:"value" binding:"required"`
	From  string   `form:"from" binding:"required"`
	To    string   `form:"to" binding:"required"`
}

// ConvertResponse is the body of a successful GET /convert.
type ConvertResponse struct {
	Value  float64 `json:"value"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Result float64 `json:"result"`
	Factor float64 `json:"factor"`
}

// PathRequest is the query string of GET /path.
type PathRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// PathResponse is the body of a successful GET /path.
type PathResponse struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Units  []string `json:"units"`
	Factor float64  `json:"factor"`
}

// UnitsResponse is the body of GET /units.
type UnitsResponse struct {
	Units []string `json:"units"`
	Count int      `json:"count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Units  int    `json:"units"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handlers serves conversion queries from the converter in a Holder.
type Handlers struct {
	holder *Holder
	logger *slog.Logger
}

// NewHandlers creates handlers bound to holder. A nil logger discards output.
func NewHandlers(holder *Holder, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Handlers{holder: holder, logger: logger}
}

// RegisterRoutes mounts the conversion API on rg.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/convert", h.HandleConvert)
	rg.GET("/path", h.HandlePath)
	rg.GET("/units", h.HandleUnits)
	rg.GET("/health", h.HandleHealth)
}

// HandleConvert handles GET /convert?value=&from=&to=.
func (h *Handlers) HandleConvert(c *gin.Context) {
	const endpoint = "convert"
	start := time.Now()
	defer func() {
		conversionDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var req ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, endpoint, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	if math.IsNaN(*req.Value) || math.IsInf(*req.Value, 0) {
		h.fail(c, endpoint, http.StatusBadRequest, CodeInvalidRequest, "value must be a finite number")
		return
	}

	conv := h.holder.Load()
	factor, err := conv.Factor(req.From, req.To)
	if err != nil {
		h.conversionError(c, endpoint, err)
		return
	}

	result := *req.Value * factor
	if math.IsNaN(result) || math.IsInf(result, 0) {
		h.fail(c, endpoint, http.StatusUnprocessableEntity, CodeNonFiniteResult, "result overflows a float64")
		return
	}

	conversionsTotal.WithLabelValues(endpoint, "ok").Inc()
	c.JSON(http.StatusOK, ConvertResponse{
		Value:  *req.Value,
		From:   req.From,
		To:     req.To,
		Result: result,
		Factor: factor,
	})
}

// HandlePath handles GET /path?from=&to=.
func (h *Handlers) HandlePath(c *gin.Context) {
	const endpoint = "path"
	start := time.Now()
	defer func() {
		conversionDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var req PathRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, endpoint, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	units, factor, err := h.holder.Load().Path(req.From, req.To)
	if err != nil {
		h.conversionError(c, endpoint, err)
		return
	}

	conversionsTotal.WithLabelValues(endpoint, "ok").Inc()
	c.JSON(http.StatusOK, PathResponse{From: req.From, To: req.To, Units: units, Factor: factor})
}

// HandleUnits handles GET /units.
func (h *Handlers) HandleUnits(c *gin.Context) {
	units := h.holder.Load().Units()
	c.JSON(http.StatusOK, UnitsResponse{Units: units, Count: len(units)})
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Units: len(h.holder.Load().Units())})
}

// conversionError maps converter errors onto HTTP responses.
func (h *Handlers) conversionError(c *gin.Context, endpoint string, err error) {
	switch {
	case errors.Is(err, converter.ErrUnitNotFound):
		h.fail(c, endpoint, http.StatusNotFound, CodeUnitNotFound, err.Error())
	case errors.Is(err, converter.ErrConversionFailed):
		h.fail(c, endpoint, http.StatusUnprocessableEntity, CodeConversionFailed, err.Error())
	default:
		h.logger.Error("conversion error", slog.String("endpoint", endpoint), slog.Any("error", err))
		h.fail(c, endpoint, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// fail writes an ErrorResponse and counts the outcome.
func (h *Handlers) fail(c *gin.Context, endpoint string, status int, code, msg string) {
	conversionsTotal.WithLabelValues(endpoint, resultLabel(code)).Inc()
	h.logger.Debug("request rejected",
		slog.String("endpoint", endpoint),
		slog.String("code", code),
		slog.String("message", msg),
	)
	c.JSON(status, ErrorResponse{Code: code, Message: msg})
}

// resultLabel turns an error code into a metric label value.
func resultLabel(code string) string {
	switch code {
	case CodeUnitNotFound:
		return "unit_not_found"
	case CodeConversionFailed:
		return "conversion_failed"
	case CodeInvalidRequest:
		return "invalid_request"
	case CodeNonFiniteResult:
		return "non_finite"
	default:
		return "error"
	}
}
