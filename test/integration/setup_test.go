package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"food-donation-be/internal/bootstrap"
	"food-donation-be/internal/config"
	"food-donation-be/internal/dto"
	"food-donation-be/internal/model"
	"food-donation-be/internal/pkg/serverutils"
	"food-donation-be/internal/server"
	"food-donation-be/internal/service"
	"food-donation-be/pkg/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var clockNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type testApp struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

// newTestApp boots the full server on an in-memory SQLite store, with Redis
// served by miniredis and no NATS, so events take the in-process path.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.NewSQLiteDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, bootstrap.Migrate(db))
	require.NoError(t, bootstrap.SeedNotificationTypes(db))
	require.NoError(t, bootstrap.SeedCategories(db))

	mr := miniredis.RunT(t)

	cfg := &config.Config{
		App: config.AppConfig{
			Environment:        "test",
			CorsAllowedOrigins: "http://localhost:5173",
			RedisURL:           "redis://" + mr.Addr(),
			Timezone:           "UTC",
		},
		Events: config.EventsConfig{Topic: "domain_events"},
	}

	container := bootstrap.NewContainer(db, cfg, service.FixedClock(clockNow, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, container.Start(ctx))
	t.Cleanup(func() {
		cancel()
		container.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testApp{t: t, app: server.New(cfg, container).GetApp(), db: db}
}

// do sends a JSON request and decodes the envelope into out when out is non-nil.
func (a *testApp) do(method, path, token string, body interface{}, out interface{}) int {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testApp) seedAdmin(email, password string) {
	a.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(a.t, err)
	require.NoError(a.t, a.db.Create(&model.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Site",
		LastName:     "Admin",
		Role:         "admin",
		IsVerified:   true,
		IsActive:     true,
		DateJoined:   time.Now(),
		UpdatedAt:    time.Now(),
	}).Error)
}

func (a *testApp) register(req dto.RegisterRequest) dto.UserResponse {
	a.t.Helper()
	var res serverutils.BaseResponse[dto.UserResponse]
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/register", "", req, &res))
	return res.Data
}

func (a *testApp) login(email, password string) string {
	a.t.Helper()
	var res serverutils.BaseResponse[dto.LoginResponse]
	require.Equal(a.t, http.StatusOK, a.do(http.MethodPost, "/api/token", "", dto.LoginRequest{Email: email, Password: password}, &res))
	return res.Data.AccessToken
}
