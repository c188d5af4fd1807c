package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holou/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStaffRoutesNeedStaffToken(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Minute)

	r := gin.New()
	r.Use(TraceIDMiddleware())
	staff := r.Group("/staff", JWTAuthMiddleware(issuer), RoleMiddleware("staff"))
	staff.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/staff/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer nope").Code)

	visitor, err := issuer.CreateToken("someone", "visitor")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do("Bearer "+visitor).Code)

	staffToken, err := issuer.CreateToken("admin", "staff")
	require.NoError(t, err)
	w := do("Bearer " + staffToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestSessionMiddlewareIssuesAndKeepsCookie(t *testing.T) {
	r := gin.New()
	r.Use(SessionMiddleware("holou_session", time.Hour, false))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	first := w.Body.String()
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "holou_session", Value: first})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "holou_session", Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "forged", w.Body.String())
}
