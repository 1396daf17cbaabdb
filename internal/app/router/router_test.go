package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"user_backend/internal/feature/users/adapters"
	usershandler "user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/feature/users/transport/http/dto"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/http/handler"
	"user_backend/internal/platform/metrics"
	"user_backend/internal/platform/password"
	"user_backend/internal/shared/ratelimiter"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	return newTestServerWithHasher(t, opts, password.Plain{})
}

func newTestServerWithHasher(t *testing.T, opts Options, hasher usecase.PasswordHasher) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&adapters.UserModel{}))
	t.Cleanup(func() { _ = sqlDB.Close() })

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	reg := prometheus.NewRegistry()
	uc := usecase.NewUserUsecase(adapters.NewUserGorm(db), hasher)
	r := NewRouter(opts, Deps{
		Users:    usershandler.NewUserHandler(uc),
		Health:   handler.NewHealthHandler(sqlDB),
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	})
	return &testServer{router: r, db: db}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) countUsers(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(&adapters.UserModel{}).Count(&n).Error)
	return n
}

func TestUsers_CreateThenGet(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{})

	w := s.do(http.MethodPost, "/users", `{"name":"Ada","email":"ada@x.com","password":"secret"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.UserRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Ada", created.Name)
	assert.Equal(t, "ada@x.com", created.Email)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	_, err := time.Parse(dto.TimestampLayout, created.CreatedAt)
	assert.NoError(t, err)
	assert.NotContains(t, w.Body.String(), "secret")

	w = s.do(http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.UserRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0], "list element should equal the create response")

	w = s.do(http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var single dto.UserRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &single))
	assert.Equal(t, created, single)
}

func TestUsers_ListEmpty(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{})

	w := s.do(http.MethodGet, "/users", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUsers_TwoCreatesThenList(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{})

	bodies := []string{
		`{"name":"Ada","email":"ada@x.com","password":"p1"}`,
		`{"name":"Grace","email":"grace@x.com","password":"p2"}`,
	}
	var created []dto.UserRes
	for _, b := range bodies {
		w := s.do(http.MethodPost, "/users", b)
		require.Equal(t, http.StatusCreated, w.Code)
		var u dto.UserRes
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
		created = append(created, u)
	}
	assert.Less(t, created[0].ID, created[1].ID)

	w := s.do(http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.UserRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, created, list)
}

func TestUsers_InvalidCreateStoresNothing(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"missing email":  `{"name":"Ada","password":"secret"}`,
		"unknown field":  `{"name":"Ada","email":"ada@x.com","password":"secret","role":"admin"}`,
		"malformed":      `{"name":`,
		"name too long":  `{"name":"` + strings.Repeat("n", 81) + `","email":"ada@x.com","password":"secret"}`,
		"empty body":     ``,
		"trailing value": `{"name":"Ada","email":"ada@x.com","password":"secret"} 1`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, Options{})

			w := s.do(http.MethodPost, "/users", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"invalid request"`)
			assert.Zero(t, s.countUsers(t))
		})
	}
}

func TestUsers_BodyTooLarge(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{MaxBodyBytes: 64})

	body := `{"name":"Ada","email":"ada@x.com","password":"` + strings.Repeat("p", 100) + `"}`
	w := s.do(http.MethodPost, "/users", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, s.countUsers(t))
}

func TestUsers_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{})

	w := s.do(http.MethodPost, "/users", `{"name":"Ada","email":"ada@x.com","password":"secret"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.UserRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = s.do(http.MethodPut, "/users/1", `{"name":"Ada L.","email":"ada@lovelace.org","password":"new"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated dto.UserRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	w = s.do(http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, w.Body.String())

	w = s.do(http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsers_StorageFailure(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{})
	require.NoError(t, s.db.Migrator().DropTable(&adapters.UserModel{}))

	w := s.do(http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	w = s.do(http.MethodPost, "/users", `{"name":"Ada","email":"ada@x.com","password":"secret"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{})

	w := s.do(http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{})

	s.do(http.MethodGet, "/users", "")
	w := s.do(http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/users",status="200"} 1`)
}

func TestNoRoute(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{})

	w := s.do(http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("allow all", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, Options{CORSAllowOrigins: []string{"*"}})

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Origin", "https://app.example")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("restricted origin preflight", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, Options{CORSAllowOrigins: []string{"https://app.example"}})

		req := httptest.NewRequest(http.MethodOptions, "/users", nil)
		req.Header.Set("Origin", "https://app.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, Options{CORSAllowOrigins: []string{"https://app.example"}})

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUsers_WriteRateLimit(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Options{WriteLimiter: ratelimiter.NewRateLimiter(1, time.Hour, 1)})

	body := `{"name":"Ada","email":"ada@x.com","password":"secret"}`
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/users", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/users", body).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/users", "").Code, "reads are not limited")
	assert.Equal(t, int64(1), s.countUsers(t))
}

func TestRequestLogWritesToConfiguredLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := newTestServer(t, Options{Logger: slog.New(slog.NewJSONHandler(&buf, nil))})

	s.do(http.MethodGet, "/users", "")

	assert.Contains(t, buf.String(), `"msg":"request"`)
	assert.Contains(t, buf.String(), `"path":"/users"`)
}

func TestUsers_BcryptRejectsOverlongPassword(t *testing.T) {
	t.Parallel()
	s := newTestServerWithHasher(t, Options{}, password.Bcrypt{Cost: 4})

	long := strings.Repeat("a", 100)
	w := s.do(http.MethodPost, "/users", `{"name":"Ada","email":"ada@x.com","password":"`+long+`"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.JSONEq(t, `{"error":"invalid request","details":"password: rejected by hasher"}`, w.Body.String())
	assert.Zero(t, s.countUsers(t))

	w = s.do(http.MethodPost, "/users", `{"name":"Ada","email":"ada@x.com","password":"secret"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.UserRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = s.do(http.MethodPut, "/users/"+strconv.FormatUint(uint64(created.ID), 10), `{"name":"Ada","email":"ada@x.com","password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var stored adapters.UserModel
	require.NoError(t, s.db.First(&stored, created.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret")))
}
