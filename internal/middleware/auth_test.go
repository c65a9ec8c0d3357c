package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfithaven/storefront-api/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func identityRouter(extra ...gin.HandlerFunc) (*gin.Engine, *Identity) {
	gin.SetMode(gin.TestMode)
	seen := &Identity{}
	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		*seen = CurrentIdentity(c)
		c.Status(http.StatusNoContent)
	})
	router.GET("/protected", handlers...)
	return router, seen
}

func perform(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_ExtractsIdentity(t *testing.T) {
	router, seen := identityRouter()
	userID := uuid.New()

	rec := perform(router, "Bearer "+signToken(t, userID, model.RoleCustomer))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, seen.UserID)
	assert.Equal(t, model.RoleCustomer, seen.Role)
	assert.False(t, seen.Admin())
}

func TestAuthMiddleware_RejectsMissingOrMalformedToken(t *testing.T) {
	router, _ := identityRouter()

	assert.Equal(t, http.StatusUnauthorized, perform(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(router, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(router, "Bearer not-a-jwt").Code)
}

func TestAuthMiddleware_RejectsWrongSecret(t *testing.T) {
	router, _ := identityRouter()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": model.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, perform(router, "Bearer "+forged).Code)
}

func TestAdminOnly(t *testing.T) {
	router, seen := identityRouter(AdminOnly())

	rec := perform(router, "Bearer "+signToken(t, uuid.New(), model.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = perform(router, "Bearer "+signToken(t, uuid.New(), model.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, seen.Admin())
}

func TestCurrentIdentity_ZeroWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, Identity{}, CurrentIdentity(c))
}
