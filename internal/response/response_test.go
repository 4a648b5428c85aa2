package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", h)
	return r
}

func TestRequestIDPropagation(t *testing.T) {
	r := newEngine(func(c *gin.Context) { Success(c, http.StatusOK, nil) })

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"client id kept", "abc-123", true},
		{"missing id generated", "", false},
		{"overlong id replaced", strings.Repeat("x", 65), false},
		{"control characters replaced", "bad\tid", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-ID")
			if got == "" {
				t.Fatal("X-Request-ID missing")
			}
			if (got == tt.header) != tt.keep {
				t.Errorf("X-Request-ID = %q, header %q, keep %v", got, tt.header, tt.keep)
			}

			var body Response
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Metadata.RequestID != got {
				t.Errorf("metadata request_id = %q, want %q", body.Metadata.RequestID, got)
			}
		})
	}
}

func TestFailWithDetails(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		FailWithDetails(c, http.StatusConflict, ErrRoomConflict, gin.H{"existing": "s1"})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data  any `json:"data"`
		Error struct {
			Code    ErrCode           `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data != nil {
		t.Errorf("data = %v, want null", body.Data)
	}
	if body.Error.Code != ErrRoomConflict || body.Error.Message != GetMessage(ErrRoomConflict) {
		t.Errorf("error = %+v", body.Error)
	}
	if body.Error.Details["existing"] != "s1" {
		t.Errorf("details = %v", body.Error.Details)
	}
}
