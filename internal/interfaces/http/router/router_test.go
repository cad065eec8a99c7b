package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouterDefaults(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetupMountsGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	operations := NewDomainGroup("operations", "/operations")
	operations.GET("", func(c *gin.Context) { c.String(http.StatusOK, "operations") })

	warehouses := NewDomainGroup("warehouses", "/warehouses")
	warehouses.GET("", func(c *gin.Context) { c.String(http.StatusOK, "warehouses") })

	r.Register(operations).Register(warehouses).Setup()

	w := serve(t, engine, "GET", "/api/v1/operations")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "operations", w.Body.String())

	w = serve(t, engine, "GET", "/api/v1/warehouses")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "warehouses", w.Body.String())
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	g := NewDomainGroup("operations", "/operations")
	assert.Equal(t, "operations", g.Name())
	assert.Equal(t, "/operations", g.Prefix())

	// Chained registration covers each verb the API uses
	g.GET("", ok).
		POST("/purchases", ok).
		PUT("/:id", ok).
		DELETE("/:id", ok)

	api := engine.Group("/api/v1")
	g.RegisterRoutes(api)

	for _, tt := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/operations"},
		{http.MethodPost, "/api/v1/operations/purchases"},
		{http.MethodPut, "/api/v1/operations/op-1"},
		{http.MethodDelete, "/api/v1/operations/op-1"},
	} {
		w := serve(t, engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("stock", "/stock")
	g.Use(func(c *gin.Context) {
		c.Header("X-Stock-Scope", "ledger")
		c.Next()
	})
	g.GET("/position", func(c *gin.Context) { c.Status(http.StatusOK) })

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(t, engine, "GET", "/api/v1/stock/position")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ledger", w.Header().Get("X-Stock-Scope"))
}

func TestDomainGroupSubgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("reports", "/reports")

	dashboard := g.Group("dashboard", "/dashboard")
	dashboard.GET("", func(c *gin.Context) { c.String(http.StatusOK, "kpis") })

	inventory := g.Group("inventory", "/inventory")
	inventory.GET("", func(c *gin.Context) { c.String(http.StatusOK, "inventory") })

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(t, engine, "GET", "/api/v1/reports/dashboard")
	assert.Equal(t, "kpis", w.Body.String())

	w = serve(t, engine, "GET", "/api/v1/reports/inventory")
	assert.Equal(t, "inventory", w.Body.String())
}
