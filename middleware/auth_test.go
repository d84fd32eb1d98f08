package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wellbeing/services"

	"github.com/gin-gonic/gin"
)

type stubSessions struct {
	valid map[string]bool
}

func (s stubSessions) Validate(_ context.Context, sessionID string) bool {
	return s.valid[sessionID]
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens := services.NewTokenService("test_secret_key", "facethefacts", time.Hour, 24*time.Hour)
	sessions := stubSessions{valid: map[string]bool{"live": true}}

	tests := []struct {
		name           string
		setupAuth      func(t *testing.T, req *http.Request)
		expectedStatus int
		checkResponse  func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "valid token",
			setupAuth: func(t *testing.T, req *http.Request) {
				token, err := tokens.GenerateToken("user-1", "live")
				if err != nil {
					t.Fatalf("GenerateToken: %v", err)
				}
				req.Header.Set("Authorization", "Bearer "+token)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["user_id"] != "user-1" || body["session_id"] != "live" {
					t.Errorf("unexpected context values: %v", body)
				}
			},
		},
		{
			name: "token in query string",
			setupAuth: func(t *testing.T, req *http.Request) {
				token, _ := tokens.GenerateToken("user-2", "")
				q := req.URL.Query()
				q.Set("access_token", token)
				req.URL.RawQuery = q.Encode()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["user_id"] != "user-2" {
					t.Errorf("user_id = %v", body["user_id"])
				}
			},
		},
		{
			name:           "missing token",
			setupAuth:      func(t *testing.T, req *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["error"] != "Missing or invalid token" {
					t.Errorf("error = %v", body["error"])
				}
			},
		},
		{
			name: "refresh token rejected",
			setupAuth: func(t *testing.T, req *http.Request) {
				token, _ := tokens.GenerateRefreshToken("user-1", "live")
				req.Header.Set("Authorization", "Bearer "+token)
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["error"] != "Invalid token type" {
					t.Errorf("error = %v", body["error"])
				}
			},
		},
		{
			name: "ended login session",
			setupAuth: func(t *testing.T, req *http.Request) {
				token, _ := tokens.GenerateToken("user-1", "gone")
				req.Header.Set("Authorization", "Bearer "+token)
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["error"] != "Session has ended" {
					t.Errorf("error = %v", body["error"])
				}
			},
		},
		{
			name: "garbage token",
			setupAuth: func(t *testing.T, req *http.Request) {
				req.Header.Set("Authorization", "Bearer invalid-token")
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				if body["error"] != "Invalid token" {
					t.Errorf("error = %v", body["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(AuthMiddleware(tokens, nil, sessions))
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"user_id":    c.GetString("user_id"),
					"session_id": c.GetString("session_id"),
				})
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			tt.setupAuth(t, req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.expectedStatus, w.Body.String())
			}
			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			tt.checkResponse(t, body)
		})
	}
}

func TestRequestTracingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestTracingMiddleware())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("request id not set")
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:3000", "http://localhost:3000"},
		{"http://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", tt.origin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: allow-origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestRequestSizeLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestSizeLimiter(16))
	router.POST("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		body string
		want int
	}{
		{`{"blinks":1}`, http.StatusNoContent},
		{`{"blinks":1,"keys":2,"mouse":3}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body)))
		if w.Code != tt.want {
			t.Errorf("body %s: status = %d, want %d", tt.body, w.Code, tt.want)
		}
	}
}
