package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/exhibition/config"
	"github.com/cppla/exhibition/models"
	"github.com/cppla/exhibition/stats"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: "file:" + name + "?mode=memory&cache=shared",
		LogLevel:    "silent",
	}, models.All()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(LoadSession())
	r.Use(handlers...)
	return r
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar:     jar,
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func visitorCount(t *testing.T, db *gorm.DB, day string) int64 {
	t.Helper()
	var row models.DailyStat
	if err := db.Where("date = ?", day).First(&row).Error; err != nil {
		return 0
	}
	return row.VisitorCount
}

func TestVisitCounterOncePerSession(t *testing.T) {
	db := setupTestDB(t)
	counter := stats.NewCounter(db)
	r := newEngine(VisitCounter(counter))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	srv := httptest.NewServer(r)
	defer srv.Close()

	alice := newClient(t)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, get(t, alice, srv.URL+"/ping").StatusCode)
	}
	require.Equal(t, int64(1), visitorCount(t, db, counter.Today()))

	bob := newClient(t)
	get(t, bob, srv.URL+"/ping")
	require.Equal(t, int64(2), visitorCount(t, db, counter.Today()))
}

func TestVisitCounterNewDayCountsAgain(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 2, 12, 14, 0, 0, 0, time.UTC)
	counter := stats.NewCounter(db).WithClock(func() time.Time { return now })
	r := newEngine(VisitCounter(counter))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := newClient(t)
	get(t, client, srv.URL+"/ping")
	require.Equal(t, int64(1), visitorCount(t, db, "2026-02-12"))

	now = now.Add(2 * time.Hour)
	get(t, client, srv.URL+"/ping")
	get(t, client, srv.URL+"/ping")
	require.Equal(t, int64(1), visitorCount(t, db, "2026-02-12"))
	require.Equal(t, int64(1), visitorCount(t, db, "2026-02-13"))
}

func TestVisitCounterFailureServesPage(t *testing.T) {
	db := setupTestDB(t)
	counter := stats.NewCounter(db)
	r := newEngine(VisitCounter(counter))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	srv := httptest.NewServer(r)
	defer srv.Close()

	require.NoError(t, db.Migrator().DropTable(&models.DailyStat{}))
	client := newClient(t)
	require.Equal(t, http.StatusOK, get(t, client, srv.URL+"/ping").StatusCode)

	require.NoError(t, db.AutoMigrate(&models.DailyStat{}))
	get(t, client, srv.URL+"/ping")
	require.Equal(t, int64(1), visitorCount(t, db, counter.Today()))
}

func TestAuthRequiredRedirectsAnonymous(t *testing.T) {
	r := newEngine()
	r.GET("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"flashes": CurrentSession(c).Flashes()})
	})
	r.GET("/signin", func(c *gin.Context) {
		state := CurrentSession(c)
		state.SignIn(7, "admin")
		if err := state.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/admin", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "%d %s", c.GetUint(ContextUserIDKey), c.GetString(ContextUsernameKey))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := newClient(t)
	resp := get(t, client, srv.URL+"/admin")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, LoginPath, resp.Header.Get("Location"))

	resp, err := client.Get(srv.URL + "/login")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Flashes []string `json:"flashes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, []string{LoginRequiredMessage}, body.Flashes)

	get(t, client, srv.URL+"/signin")
	resp, err = client.Get(srv.URL + "/admin")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "7 admin", string(text))
}

func TestAuthorize(t *testing.T) {
	_, _, err := Authorize(nil, "/admin")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "/admin", authErr.Path)
}

func TestRateLimit(t *testing.T) {
	r := newEngine()
	pages := multitemplate.NewRenderer()
	pages.AddFromString("error", "{{.Message}}")
	r.HTMLRender = pages
	r.POST("/comment", RateLimit(2), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := newClient(t)
	var codes []int
	for i := 0; i < 3; i++ {
		resp, err := client.Post(srv.URL+"/comment", "application/x-www-form-urlencoded", nil)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	require.Equal(t, http.StatusNoContent, codes[0])
	require.Equal(t, http.StatusTooManyRequests, codes[len(codes)-1])
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestIDKey)) })
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp := get(t, newClient(t), srv.URL+"/ping")
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/ping", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}
