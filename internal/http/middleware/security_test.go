package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func serveWith(opt SecurityOptions, prep func(*http.Request), pre ...gin.HandlerFunc) http.Header {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(pre...)
	r.Use(SecurityHeaders(opt))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	if prep != nil {
		prep(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header()
}

func withRID(c *gin.Context) { c.Header(requestIDHeader, "rid-123"); c.Next() }

func TestSecurityHeaders_Baseline(t *testing.T) {
	h := serveWith(SecurityOptions{}, nil, withRID)

	if h.Get("X-Content-Type-Options") != "nosniff" ||
		h.Get("X-Frame-Options") != "DENY" ||
		h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline headers missing: %#v", h)
	}
	for _, k := range []string{"Permissions-Policy", "Cache-Control", "Strict-Transport-Security", "Access-Control-Expose-Headers"} {
		if h.Get(k) != "" {
			t.Fatalf("unexpected %s: %#v", k, h)
		}
	}
}

func TestSecurityHeaders_ExposeRequestID(t *testing.T) {
	h := serveWith(SecurityOptions{ExposeRequestID: true}, nil, withRID)
	if got := h.Get("Access-Control-Expose-Headers"); got != requestIDHeader {
		t.Fatalf("expose = %q", got)
	}

	h = serveWith(SecurityOptions{ExposeRequestID: true}, nil, withRID, func(c *gin.Context) {
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Next()
	})
	if got := h.Get("Access-Control-Expose-Headers"); got != "Content-Length, X-Request-ID" {
		t.Fatalf("expose append = %q", got)
	}

	// No request id, nothing to expose.
	h = serveWith(SecurityOptions{ExposeRequestID: true}, nil)
	if got := h.Get("Access-Control-Expose-Headers"); got != "" {
		t.Fatalf("expose without id = %q", got)
	}
}

func TestSecurityHeaders_EmbedProfile(t *testing.T) {
	h := serveWith(SecurityOptions{AllowFraming: true, NoStore: true}, nil, withRID)
	if h.Get("X-Frame-Options") != "" {
		t.Fatalf("framing must be allowed")
	}
	if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" || h.Get("Expires") != "0" {
		t.Fatalf("no-store headers missing: %#v", h)
	}
	if h.Get("Access-Control-Expose-Headers") != "" {
		t.Fatalf("embed profile must not add CORS headers")
	}
}

func TestSecurityHeaders_PolicyAndHSTS(t *testing.T) {
	opt := SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour, EnablePolicy: true}

	h := serveWith(opt, func(r *http.Request) { r.TLS = &tls.ConnectionState{} })
	if h.Get("Strict-Transport-Security") != "max-age=3600; includeSubDomains; preload" {
		t.Fatalf("HSTS = %q", h.Get("Strict-Transport-Security"))
	}
	if h.Get("Permissions-Policy") == "" || h.Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("policy headers missing: %#v", h)
	}

	h = serveWith(opt, func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "HTTPS") })
	if h.Get("Strict-Transport-Security") == "" {
		t.Fatalf("expected HSTS behind TLS-terminating proxy")
	}

	h = serveWith(opt, nil)
	if h.Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be sent over plain HTTP")
	}

	h = serveWith(SecurityOptions{EnableHSTS: true}, func(r *http.Request) { r.TLS = &tls.ConnectionState{} })
	if h.Get("Strict-Transport-Security") != "max-age=15552000; includeSubDomains; preload" {
		t.Fatalf("default HSTS max-age = %q", h.Get("Strict-Transport-Security"))
	}
}
