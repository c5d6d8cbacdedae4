package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsEngine(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(corsPolicy(origins)...)
	r.GET("/contacts", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCorsPolicy_Allowlist(t *testing.T) {
	r := corsEngine([]string{"https://app.example"})

	for origin, want := range map[string]string{
		"https://app.example":  "https://app.example",
		"https://evil.example": "",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != want {
			t.Errorf("origin %s: ACAO = %q; want %q", origin, got, want)
		}
	}
}

func TestCorsPolicy_Preflight(t *testing.T) {
	r := corsEngine(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/contacts", nil)
	req.Header.Set("Origin", "https://any.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") == "true" {
		t.Fatalf("credentials must not be allowed")
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Fatalf("allow headers missing on preflight")
	}
}
