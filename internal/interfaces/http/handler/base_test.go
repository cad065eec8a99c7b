package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negoce/backend/internal/domain/ledger"
	"github.com/negoce/backend/internal/domain/shared"
	"github.com/negoce/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// respond runs one BaseHandler response method against a fresh context and
// returns the recorder plus the decoded envelope.
func respond(t *testing.T, requestID string, fn func(*BaseHandler, *gin.Context)) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	if requestID != "" {
		c.Set(RequestIDKey, requestID)
	}

	fn(&BaseHandler{}, c)
	c.Writer.WriteHeaderNow()

	var resp dto.Response
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestGetRequestID(t *testing.T) {
	newCtx := func() *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		return c
	}

	t.Run("context value wins over header", func(t *testing.T) {
		c := newCtx()
		c.Set(RequestIDKey, "ctx-id")
		c.Request.Header.Set("X-Request-ID", "header-id")
		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("header fallback", func(t *testing.T) {
		c := newCtx()
		c.Request.Header.Set("X-Request-ID", "header-id")
		assert.Equal(t, "header-id", getRequestID(c))
	})

	t.Run("empty when neither set", func(t *testing.T) {
		assert.Equal(t, "", getRequestID(newCtx()))
	})
}

func TestBaseHandlerSuccessResponses(t *testing.T) {
	w, resp := respond(t, "", func(h *BaseHandler, c *gin.Context) {
		h.Success(c, map[string]string{"product": "cashew"})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	w, resp = respond(t, "", func(h *BaseHandler, c *gin.Context) {
		h.SuccessWithMeta(c, []string{"lot-1", "lot-2"}, 100, 1, 10)
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)

	w, resp = respond(t, "", func(h *BaseHandler, c *gin.Context) {
		h.Created(c, map[string]string{"id": "123"})
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)

	w, _ = respond(t, "", func(h *BaseHandler, c *gin.Context) {
		h.NoContent(c)
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerErrorResponses(t *testing.T) {
	for _, tt := range []struct {
		name   string
		method func(*BaseHandler, *gin.Context)
		status int
		code   string
	}{
		{"BadRequest", func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "bad payload") },
			http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"NotFound", func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "no such lot") },
			http.StatusNotFound, dto.ErrCodeNotFound},
		{"Conflict", func(h *BaseHandler, c *gin.Context) { h.Conflict(c, "duplicate warehouse code") },
			http.StatusConflict, dto.ErrCodeConflict},
		{"InternalError", func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "boom") },
			http.StatusInternalServerError, dto.ErrCodeInternal},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := respond(t, "req-9", tt.method)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-9", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerValidationError(t *testing.T) {
	w, resp := respond(t, "val-req-456", func(h *BaseHandler, c *gin.Context) {
		h.ValidationError(c, []dto.ValidationDetail{
			{Field: "quantity", Message: "Must be positive"},
			{Field: "warehouse_id", Message: "Required"},
		})
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "val-req-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
}

func TestBaseHandlerBindingError(t *testing.T) {
	t.Run("validator failures carry field details", func(t *testing.T) {
		form := struct {
			Product  string `validate:"required"`
			Quantity int    `validate:"required,gt=0"`
		}{}
		verr := validator.New().Struct(form)
		require.Error(t, verr)

		w, resp := respond(t, "", func(h *BaseHandler, c *gin.Context) {
			h.BindingError(c, verr)
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("malformed payload stays a plain bad request", func(t *testing.T) {
		w, resp := respond(t, "", func(h *BaseHandler, c *gin.Context) {
			h.BindingError(c, errors.New("unexpected EOF"))
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})
}

func TestBaseHandlerHandleDomainError(t *testing.T) {
	for _, tt := range []struct {
		err    error
		status int
		code   string
	}{
		{shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{shared.ErrInsufficientStock, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{ledger.ErrInvalidQuantity, http.StatusBadRequest, dto.ErrCodeInvalidQuantity},
		{ledger.ErrLockTimeout, http.StatusConflict, dto.ErrCodeLedgerBusy},
		{ledger.ErrSettingsUnavailable, http.StatusServiceUnavailable, dto.ErrCodeSettingsUnavailable},
	} {
		t.Run(tt.code, func(t *testing.T) {
			w, resp := respond(t, "", func(h *BaseHandler, c *gin.Context) {
				h.HandleDomainError(c, tt.err)
			})
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	t.Run("shortfall message names the exact quantities", func(t *testing.T) {
		stockErr := &ledger.InsufficientStockError{
			Product:     "cashew",
			WarehouseID: uuid.New(),
			Requested:   decimal.NewFromInt(500),
			Available:   decimal.NewFromInt(320),
		}
		w, resp := respond(t, "", func(h *BaseHandler, c *gin.Context) {
			h.HandleDomainError(c, stockErr)
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "requested 500 kg")
		assert.Contains(t, resp.Error.Message, "available 320 kg")
		assert.Contains(t, resp.Error.Message, "short 180 kg")
	})

	t.Run("wrapped domain errors unwrap", func(t *testing.T) {
		w, resp := respond(t, "", func(h *BaseHandler, c *gin.Context) {
			h.HandleDomainError(c, fmt.Errorf("loading lots: %w", shared.ErrNotFound))
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("request id is echoed", func(t *testing.T) {
		_, resp := respond(t, "domain-err-req", func(h *BaseHandler, c *gin.Context) {
			h.HandleDomainError(c, shared.ErrNotFound)
		})
		assert.Equal(t, "domain-err-req", resp.Error.RequestID)
	})

	t.Run("unknown errors become internal", func(t *testing.T) {
		w, resp := respond(t, "", func(h *BaseHandler, c *gin.Context) {
			h.HandleDomainError(c, assert.AnError)
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})
}
