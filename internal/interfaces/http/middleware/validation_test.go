package middleware

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negoce/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type purchaseForm struct {
	Product   string `json:"product" binding:"required,min=1,max=255"`
	Quantity  string `json:"quantity" binding:"required"`
	CostPerKg string `json:"cost_per_kg" binding:"required"`
	Method    string `json:"method" binding:"omitempty,oneof=FIFO WEIGHTED_AVERAGE"`
}

func validate(t *testing.T, v any) error {
	t.Helper()
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return engine.Struct(v)
}

func TestSetupValidatorUsesJSONNames(t *testing.T) {
	SetupValidator()

	err := validate(t, &purchaseForm{Product: "cashew", Quantity: "100"})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	var fields []string
	for _, e := range verrs {
		fields = append(fields, e.Field())
	}
	assert.Contains(t, fields, "cost_per_kg")
	assert.NotContains(t, fields, "CostPerKg")
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	err := validate(t, &purchaseForm{Quantity: "100", CostPerKg: "590", Method: "LIFO"})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-9")
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-9", resp.Error.RequestID)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", messages["product"])
	assert.Equal(t, "Must be one of: FIFO WEIGHTED_AVERAGE", messages["method"])
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
}

func TestValidationMessageBounds(t *testing.T) {
	SetupValidator()

	type form struct {
		Code string `json:"code" binding:"required,min=1,max=32"`
	}
	err := validate(t, &form{Code: "THIS-WAREHOUSE-CODE-IS-FAR-TOO-LONG-TO-STORE"})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "")
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "Must be at most 32 characters", resp.Error.Details[0].Message)
}
