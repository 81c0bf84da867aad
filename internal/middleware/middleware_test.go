package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/articlehub/articlehub-backend/internal/config"
	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/articlehub/articlehub-backend/internal/response"
	"github.com/articlehub/articlehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuth() *service.AuthService {
	return service.NewAuthService(&config.Config{JWTSecret: "middleware-test-secret", BcryptCost: 4})
}

func token(t *testing.T, auth *service.AuthService, tt service.TokenType) string {
	t.Helper()
	tok, err := auth.GenerateToken(tt, model.AccountInfo{ID: 7, Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	if body.Error == nil {
		return ""
	}
	return body.Error.Code
}

func TestRequireAppUserJWT(t *testing.T) {
	auth := testAuth()
	r := gin.New()
	r.GET("/admin", RequireAppUserJWT(auth), func(c *gin.Context) {
		claims := GetClaims(c)
		response.Success(c, http.StatusOK, gin.H{"id": claims.UserID})
	})

	cases := []struct {
		name   string
		header string
		query  string
		status int
		code   response.ErrCode
	}{
		{"missing", "", "", http.StatusUnauthorized, response.ErrTokenRequired},
		{"malformed", "Bearer not-a-jwt", "", http.StatusUnauthorized, response.ErrTokenInvalid},
		{"non-bearer scheme", "Basic abc", "", http.StatusUnauthorized, response.ErrTokenInvalid},
		{"student token", "Bearer " + token(t, auth, service.TokenTypeStudent), "", http.StatusForbidden, response.ErrAdminAccessOnly},
		{"admin token", "Bearer " + token(t, auth, service.TokenTypeAdmin), "", http.StatusOK, ""},
		{"query fallback", "", token(t, auth, service.TokenTypeAdmin), http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/admin"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if code := errCode(t, w); code != tc.code {
				t.Errorf("expected code %q, got %q", tc.code, code)
			}
		})
	}
}

func TestRequireStudentJWTRejectsAdminToken(t *testing.T) {
	auth := testAuth()
	r := gin.New()
	r.GET("/me", RequireStudentJWT(auth), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, auth, service.TokenTypeAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden || errCode(t, w) != response.ErrStudentAccessOnly {
		t.Fatalf("expected 403 STUDENT_ACCESS_ONLY, got %d %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, auth, service.TokenTypeStudent))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestOptionalJWT(t *testing.T) {
	auth := testAuth()
	r := gin.New()
	r.GET("/send", OptionalJWT(auth), func(c *gin.Context) {
		role := "anonymous"
		if claims := GetClaims(c); claims != nil {
			role = string(claims.TokenType)
		}
		c.String(http.StatusOK, role)
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/send", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(""); w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Errorf("anonymous request: got %d %q", w.Code, w.Body.String())
	}
	if w := do("Bearer " + token(t, auth, service.TokenTypeAdmin)); w.Body.String() != "admin" {
		t.Errorf("admin request: got %q", w.Body.String())
	}
	if w := do("Bearer garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("invalid token should be rejected, got %d", w.Code)
	}
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	other := service.NewAuthService(&config.Config{JWTSecret: "someone-else"})
	auth := testAuth()
	r := gin.New()
	r.GET("/admin", RequireAppUserJWT(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, other, service.TokenTypeAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/signup", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := post("/login"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := post("/login"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after bucket drained, got %d", code)
	}
	if code := post("/signup"); code != http.StatusOK {
		t.Fatalf("routes must have independent buckets, got %d", code)
	}

	now = now.Add(time.Minute)
	if code := post("/login"); code != http.StatusOK {
		t.Fatalf("expected refill after interval, got %d", code)
	}

	now = now.Add(10 * time.Minute)
	rl.cleanup()
	if n := len(rl.visitors); n != 0 {
		t.Errorf("expected stale buckets swept, %d left", n)
	}
}

func brotliRouter(body string) *gin.Engine {
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/data", func(c *gin.Context) {
		// Several small writes exercise the buffered path.
		for _, chunk := range strings.SplitAfter(body, "\n") {
			_, _ = c.Writer.WriteString(chunk)
		}
	})
	return r
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("message line for compression\n", 40)
	r := brotliRouter(body)

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("expected br encoding, got %q", got)
	}
	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != body {
		t.Errorf("round trip mismatch: got %d bytes, want %d", len(decoded), len(body))
	}
}

func TestBrotliPassesSmallBodiesThrough(t *testing.T) {
	r := brotliRouter("short\n")

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Fatalf("small body should not be encoded, got %q", got)
	}
	if w.Body.String() != "short\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestBrotliSkipsWebSocketUpgrade(t *testing.T) {
	body := strings.Repeat("x", 200)
	r := brotliRouter(body)

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "br")
	req.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Fatalf("upgrade requests must not be encoded, got %q", got)
	}
	if w.Body.String() != body {
		t.Error("body altered for upgrade request")
	}
}
