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

func ok(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	documents := NewDomainGroup("documents", "/documents")
	documents.POST("/render", ok("rendered"))
	documents.GET("/engines", ok("engines"))
	r.Register(documents)
	r.Setup()

	w := serve(engine, http.MethodPost, "/api/v1/documents/render")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rendered", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/documents/engines")
	assert.Equal(t, "engines", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/documents/render")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var calls int
	g := NewDomainGroup("numbering", "/numbering")
	g.Use(func(c *gin.Context) {
		calls++
		c.Next()
	})
	g.POST("/next", ok("260007"))
	r.Register(g).Setup()

	w := serve(engine, http.MethodPost, "/api/v1/numbering/next")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
}

func TestDomainGroup_Subgroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("documents", "/documents")
	g.Group("groups", "/groups").POST("/allocate", ok("allocated"))
	r.Register(g).Setup()

	w := serve(engine, http.MethodPost, "/api/v1/documents/groups/allocate")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "allocated", w.Body.String())
}

func TestRouter_Routes(t *testing.T) {
	r := NewRouter(gin.New())

	g := NewDomainGroup("documents", "/documents")
	g.POST("/render", ok("")).Describe("render one document")
	g.GET("/engines", ok(""))
	g.Group("groups", "/groups").POST("/allocate", ok("")).Describe("allocate a doc group")
	r.Register(g)

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodPost, Path: "/api/v1/documents/render", Description: "render one document"},
		{Method: http.MethodGet, Path: "/api/v1/documents/engines"},
		{Method: http.MethodPost, Path: "/api/v1/documents/groups/allocate", Description: "allocate a doc group"},
	}, r.Routes())
}

func TestDomainGroup_DescribeWithoutRoutes(t *testing.T) {
	g := NewDomainGroup("system", "/system")
	g.Describe("ignored")

	assert.Equal(t, "system", g.Name())
	assert.Equal(t, "/system", g.Prefix())
	assert.Empty(t, g.routes)
}
