package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negoce/backend/internal/interfaces/http/dto"
)

func systemCall(t *testing.T, h *SystemHandler, path string, fn gin.HandlerFunc) map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)

	fn(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("negoce-backend", "testing")
	require.False(t, h.startTime.IsZero())

	data := systemCall(t, h, "/system/info", h.GetSystemInfo)
	assert.Equal(t, "negoce-backend", data["name"])
	assert.Equal(t, "testing", data["env"])
	assert.Equal(t, apiVersion, data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("negoce-backend", "testing")

	data := systemCall(t, h, "/system/ping", h.Ping)
	assert.Equal(t, "pong", data["message"])

	stamp, ok := data["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)
}
