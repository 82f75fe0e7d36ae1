package bootstrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/coursehub/internal/app/repositories/memory"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/middleware"
	pkgAuth "github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/session"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, maxUpload int64) *testServer {
	t.Helper()
	pkgAuth.BcryptCost = bcrypt.MinCost

	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Server.MaxUploadBytes = maxUpload
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.SessionExpiration = "1h"
	cfg.JWT.Issuer = "coursehub.test"

	local, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	res := &Resources{
		Store:    memory.NewStore(),
		Blobs:    local,
		Sessions: session.NewMemoryStore(),
	}
	deps, err := BuildDependencies(cfg, res, zerolog.Nop())
	require.NoError(t, err)

	return &testServer{t: t, router: SetupRouter(cfg, deps, zerolog.Nop())}
}

func (s *testServer) do(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) json(method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func (s *testServer) multipart(path string, fields map[string]string, fileField, filename string, content []byte, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(s.t, err)
		_, err = fw.Write(content)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.do(req, token)
}

func (s *testServer) signupAndLogin(username, accountType string) string {
	s.t.Helper()
	rec, _ := s.json(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username": username, "password": "Secret123", "accountType": accountType,
	}, "")
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.json(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username, "password": "Secret123",
	}, "")
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(s.t, login.AccessToken)
	return login.AccessToken
}

func TestHealthAndPing(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec, env := s.json(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = s.do(httptest.NewRequest(http.MethodGet, "/ping", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestSignupErrors(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.signupAndLogin("ana", "instructor")

	rec, env := s.json(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username": "ana", "password": "Secret123", "accountType": "student",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Username already exists!", env.Error.Message)

	rec, env = s.json(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username": "bob", "password": "secret123", "accountType": "student",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Password must contain an uppercase letter.", env.Error.Message)

	rec, env = s.json(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username": "bob", "password": "Secret123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Please select an account type!", env.Error.Message)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.signupAndLogin("ana", "student")

	rec, _ := s.json(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "ana", "password": "Wrong1234",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.json(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "nobody", "password": "Secret123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Invalid username or password!", env.Error.Message)

	rec, env = s.json(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "ana"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VAL_001", env.Error.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec, _ := s.json(http.MethodGet, "/api/v1/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.json(http.MethodGet, "/api/v1/profile", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCourseLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, 1<<20)
	ana := s.signupAndLogin("ana", "instructor")
	sam := s.signupAndLogin("sam", "student")

	rec, _ := s.multipart("/api/v1/courses", map[string]string{"title": "Nope"}, "", "", nil, sam)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.multipart("/api/v1/courses", map[string]string{"title": "Go", "description": "basics"}, "image", "cover.png", []byte("png"), ana)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var course struct {
		ID       int64  `json:"id"`
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &course))
	assert.NotEmpty(t, course.ImageURL)
	coursePath := fmt.Sprintf("/api/v1/courses/%d", course.ID)

	rec, env = s.multipart(coursePath+"/videos", map[string]string{"title": "Intro"}, "video", "intro.exe", []byte("x"), ana)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Unsupported video format.", env.Error.Message)

	rec, env = s.multipart(coursePath+"/videos", map[string]string{"title": "Intro"}, "", "", nil, ana)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Select a video file.", env.Error.Message)

	rec, env = s.multipart(coursePath+"/videos", map[string]string{"title": "Intro"}, "video", "intro.mp4", []byte("video-bytes"), ana)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var video struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &video))

	rec, _ = s.do(httptest.NewRequest(http.MethodGet, video.URL, nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video-bytes", rec.Body.String())

	rec, _ = s.multipart(coursePath+"/assignments", map[string]string{"title": "HW1"}, "assignment", "hw1.pdf", []byte("%PDF"), ana)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = s.json(http.MethodGet, coursePath, nil, sam)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Videos      []json.RawMessage `json:"videos"`
		Assignments []json.RawMessage `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Len(t, detail.Videos, 1)
	assert.Len(t, detail.Assignments, 1)

	rec, env = s.json(http.MethodPost, coursePath+"/enroll", nil, sam)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Course added to your list!", env.Message)

	rec, env = s.json(http.MethodPost, coursePath+"/enroll", nil, sam)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You already added this course.", env.Message)

	rec, _ = s.json(http.MethodPost, "/api/v1/courses/999/enroll", nil, sam)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.json(http.MethodGet, "/api/v1/my-courses", nil, sam)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	rec, env = s.json(http.MethodGet, "/api/v1/recommended", nil, sam)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)

	rec, env = s.json(http.MethodGet, "/api/v1/dashboard", nil, ana)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash struct {
		Instructor *struct {
			TotalCourses     int   `json:"totalCourses"`
			TotalEnrollments int64 `json:"totalEnrollments"`
		} `json:"instructor"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	require.NotNil(t, dash.Instructor)
	assert.Equal(t, 1, dash.Instructor.TotalCourses)
	assert.Equal(t, int64(1), dash.Instructor.TotalEnrollments)

	// Deleting the instructor removes the course, its files and the
	// instructor's sessions.
	rec, _ = s.json(http.MethodDelete, "/api/v1/account", nil, ana)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.json(http.MethodGet, "/api/v1/profile", nil, ana)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(httptest.NewRequest(http.MethodGet, video.URL, nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.json(http.MethodGet, "/api/v1/my-courses", nil, sam)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)
}

func TestLogoutWithCookie(t *testing.T) {
	s := newTestServer(t, 1<<20)
	token := s.signupAndLogin("sam", "student")

	withCookie := func(method, path string) *http.Request {
		req := httptest.NewRequest(method, path, nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
		return req
	}

	rec, _ := s.do(withCookie(http.MethodGet, "/api/v1/profile"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(withCookie(http.MethodPost, "/api/v1/auth/logout"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(withCookie(http.MethodGet, "/api/v1/profile"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadTooLarge(t *testing.T) {
	s := newTestServer(t, 64<<10)
	ana := s.signupAndLogin("ana", "instructor")

	rec, _ := s.multipart("/api/v1/courses", map[string]string{"title": "Go"}, "", "", nil, ana)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.multipart("/api/v1/courses/1/videos", map[string]string{"title": "Big"}, "video", "big.mp4", bytes.Repeat([]byte("a"), 256<<10), ana)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServeMissingUpload(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec, env := s.json(http.MethodGet, "/api/v1/uploads/missing.mp4", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RES_001", env.Error.Code)
	assert.Equal(t, "File not found.", env.Error.Message)
}
