package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/user/reelmate/internal/config"
	"github.com/user/reelmate/internal/handler"
	"github.com/user/reelmate/internal/middleware"
	"github.com/user/reelmate/internal/model"
	"github.com/user/reelmate/internal/recommend"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type stubRecommender struct{ userID int }

func (s *stubRecommender) GetPersonalizedRecommendations(ctx context.Context, userID, limit int, forceRefresh bool) (*recommend.Result, error) {
	s.userID = userID
	return &recommend.Result{Items: []recommend.Candidate{}, GeneratedAt: time.Now()}, nil
}

func (s *stubRecommender) InvalidateCache(userID int) bool { return false }

type stubActivity struct{}

func (stubActivity) MarkWatched(context.Context, *model.WatchedMovie) error { return nil }
func (stubActivity) RemoveWatched(context.Context, int, string) (bool, error) {
	return false, nil
}
func (stubActivity) AddToWatchlist(context.Context, *model.WatchlistItem) error { return nil }
func (stubActivity) RemoveFromWatchlist(context.Context, int, string) (bool, error) {
	return false, nil
}
func (stubActivity) SaveReview(context.Context, *model.Review) error { return nil }

func newEngine(rec *stubRecommender) *gin.Engine {
	cfg := &config.Config{AppSecret: "router-secret"}
	r := gin.New()
	RegisterRoutes(r, handler.NewHandler(cfg, rec, stubActivity{}))
	return r
}

func TestRoutes(t *testing.T) {
	rec := &stubRecommender{}
	r := newEngine(rec)
	token, err := middleware.GenerateToken(21, "router-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"recommendations without token", http.MethodGet, "/api/recommendations", "", http.StatusUnauthorized},
		{"recommendations", http.MethodGet, "/api/recommendations", token, http.StatusOK},
		{"invalidate cache", http.MethodDelete, "/api/recommendations/cache", token, http.StatusOK},
		{"remove watched", http.MethodDelete, "/api/history/550", token, http.StatusOK},
		{"unknown route", http.MethodGet, "/api/nope", token, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}

	if rec.userID != 21 {
		t.Errorf("recommender got user %d, want 21 from the token", rec.userID)
	}
}

func TestMetricsExposed(t *testing.T) {
	r := newEngine(&stubRecommender{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(w.Body.String(), "catalog_circuit_breaker_state") {
		t.Error("catalog metrics not registered")
	}
}
