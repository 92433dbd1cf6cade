package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"fitpulse/internal/config"
	"fitpulse/internal/database"
	"fitpulse/internal/models"
	"fitpulse/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The Prometheus middleware registers collectors on the default registry,
// so the test app can only be constructed once per process.
var (
	harnessOnce sync.Once
	harnessApp  *fiber.App
	harnessSrv  *Server
	harnessDB   *gorm.DB
	harnessErr  error
)

func testHarness(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	harnessOnce.Do(func() {
		db, err := gorm.Open(sqlite.Open("file:serverpkg?mode=memory&cache=shared"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			harnessErr = err
			return
		}
		if err := database.Migrate(db); err != nil {
			harnessErr = err
			return
		}

		mr, err := miniredis.Run()
		if err != nil {
			harnessErr = err
			return
		}
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

		cfg := &config.Config{
			JWTSecret: "test-secret",
			Port:      "8460",
			Env:       "test",
		}
		harnessSrv = NewServerWithDeps(cfg, db, rdb)
		harnessDB = db

		app := fiber.New()
		harnessSrv.SetupMiddleware(app)
		harnessSrv.SetupRoutes(app)
		harnessApp = app
	})
	require.NoError(t, harnessErr)
	return harnessApp, harnessSrv, harnessDB
}

func jsonRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func signUp(t *testing.T, app *fiber.App, email, name string) (string, string) {
	t.Helper()
	resp, body := jsonRequest(t, app, "POST", "/api/auth/signup", "", fiber.Map{
		"email":     email,
		"password":  "Sunrise99",
		"full_name": name,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "signup failed: %v", body)
	token := body["token"].(string)
	identity := body["identity"].(map[string]any)
	return token, identity["id"].(string)
}

func TestServer_Health(t *testing.T) {
	app, _, _ := testHarness(t)

	resp, body := jsonRequest(t, app, "GET", "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, _ = jsonRequest(t, app, "GET", "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestServer_Auth(t *testing.T) {
	app, _, _ := testHarness(t)

	t.Run("signup then login", func(t *testing.T) {
		token, userID := signUp(t, app, "auth-flow@example.com", "Maya Chen")
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, userID)

		resp, body := jsonRequest(t, app, "POST", "/api/auth/login", "", fiber.Map{
			"email":    "auth-flow@example.com",
			"password": "Sunrise99",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		resp, _ := jsonRequest(t, app, "POST", "/api/auth/signup", "", fiber.Map{
			"email":     "auth-flow@example.com",
			"password":  "Sunrise99",
			"full_name": "Imposter",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad credentials rejected", func(t *testing.T) {
		resp, _ := jsonRequest(t, app, "POST", "/api/auth/login", "", fiber.Map{
			"email":    "auth-flow@example.com",
			"password": "wrong",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("protected routes need a token", func(t *testing.T) {
		resp, _ := jsonRequest(t, app, "GET", "/api/feed/", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestServer_FeedFlow(t *testing.T) {
	app, _, _ := testHarness(t)
	token, userID := signUp(t, app, "feed-flow@example.com", "Raj Patel")

	var postID string

	t.Run("first load seeds starter posts", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/api/feed/", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		posts := body["posts"].([]any)
		require.Len(t, posts, 3)

		first := posts[0].(map[string]any)
		assert.Equal(t, "Raj Patel", first["profiles"].(map[string]any)["full_name"])
	})

	t.Run("create post prepends", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "POST", "/api/feed/posts", token, fiber.Map{
			"content": "Crushed leg day today",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		postID = body["id"].(string)
		assert.Equal(t, userID, body["user_id"])

		_, feedBody := jsonRequest(t, app, "GET", "/api/feed/", token, nil)
		posts := feedBody["posts"].([]any)
		require.Len(t, posts, 4)
	})

	t.Run("whitespace post rejected without a write", func(t *testing.T) {
		resp, _ := jsonRequest(t, app, "POST", "/api/feed/posts", token, fiber.Map{
			"content": "   ",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("comment lands on the post", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "POST", "/api/feed/posts/"+postID+"/comments", token, fiber.Map{
			"content": "Nice work!",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Nice work!", body["content"])
		assert.Equal(t, "Raj Patel", body["profiles"].(map[string]any)["full_name"])
	})

	t.Run("like increments", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "POST", "/api/feed/posts/"+postID+"/like", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["likes"])
	})

	t.Run("mutations raise notifications", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/api/notifications", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		notes := body["notifications"].([]any)
		require.NotEmpty(t, notes)

		first := notes[0].(map[string]any)
		resp, _ = jsonRequest(t, app, "DELETE",
			fmt.Sprintf("/api/notifications/%v", first["id"]), token, nil)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})
}

func TestServer_ProfileAndCatalog(t *testing.T) {
	app, _, db := testHarness(t)

	// the interest seeder needs a category catalog
	for _, name := range []string{"Cardio", "Strength", "Yoga", "HIIT"} {
		var category models.WorkoutCategory
		require.NoError(t, db.Where(models.WorkoutCategory{Name: name}).
			FirstOrCreate(&category).Error)
	}

	token, userID := signUp(t, app, "profile-flow@example.com", "Maya Chen")

	t.Run("own profile", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/api/profile/me", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, userID, body["id"])
		assert.Equal(t, "Maya Chen", body["full_name"])
	})

	t.Run("interests are seeded for a new member", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/api/profile/me/workouts", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		categories := body["categories"].([]any)
		assert.Len(t, categories, 3)
	})

	t.Run("category catalog", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/api/workout-categories", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.GreaterOrEqual(t, len(body["categories"].([]any)), 4)
	})

	t.Run("workout catalog with filters", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/api/workouts?category=Strength", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		popular := body["popular"].([]any)
		require.NotEmpty(t, popular)
		for _, entry := range popular {
			assert.Equal(t, "Strength", entry.(map[string]any)["category"])
		}
	})

	t.Run("goals", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/api/goals", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Len(t, body["active"].([]any), 3)
		assert.Len(t, body["completed"].([]any), 2)
	})

	t.Run("schedule", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/api/schedule?date=2026-03-04", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Len(t, body["days"].([]any), 7)
		assert.LessOrEqual(t, len(body["upcoming"].([]any)), 5)
	})

	t.Run("bad schedule date", func(t *testing.T) {
		resp, _ := jsonRequest(t, app, "GET", "/api/schedule?date=March+4", token, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("suggested connections", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/api/connections/suggested", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Len(t, body["suggestions"].([]any), 3)
	})
}

func TestServer_ScreenGateRedirect(t *testing.T) {
	app, _, _ := testHarness(t)

	req := httptest.NewRequest("GET", "/community", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth?mode=signin", resp.Header.Get("Location"))
}

func TestServer_ScreenBundles(t *testing.T) {
	app, _, _ := testHarness(t)
	token, _ := signUp(t, app, "screens@example.com", "Ankit Kumar")

	t.Run("community", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/community?session="+token, "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotNil(t, body["posts"])
		assert.NotNil(t, body["suggestions"])
	})

	t.Run("dashboard", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/dashboard?session="+token, "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		stats := body["stats"].(map[string]any)
		assert.Equal(t, float64(3), stats["active_goals"])
	})

	t.Run("schedule", func(t *testing.T) {
		resp, body := jsonRequest(t, app, "GET", "/schedule?session="+token, "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Len(t, body["days"].([]any), 7)
	})
}

func TestServer_LogoutDropsScreenState(t *testing.T) {
	app, srv, _ := testHarness(t)
	token, userID := signUp(t, app, "logout@example.com", "Harkirat Singh")

	// touch a protected endpoint so screen state exists
	_, _ = jsonRequest(t, app, "GET", "/api/feed/", token, nil)
	srv.mu.Lock()
	_, present := srv.screens[userID]
	srv.mu.Unlock()
	require.True(t, present)

	resp, _ := jsonRequest(t, app, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	srv.mu.Lock()
	_, present = srv.screens[userID]
	srv.mu.Unlock()
	assert.False(t, present)
}

func TestServer_ScreenForReusesGate(t *testing.T) {
	_, srv, _ := testHarness(t)

	identity := session.Identity{ID: "gate-reuse", Email: "gate@example.com"}
	first := srv.screenFor(identity)
	second := srv.screenFor(identity)
	assert.Same(t, first, second)
	srv.dropScreen(identity.ID)
}
