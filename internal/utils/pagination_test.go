package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"blogapi/internal/constants"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/posts"+query, nil)
	return c
}

func TestGetPaginationParams_Defaults(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, ""))
	require.Equal(t, constants.DefaultPageLimit, params.Limit)
	require.Equal(t, 0, params.Offset)
}

func TestGetPaginationParams_Explicit(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, "?limit=25&offset=50"))
	require.Equal(t, 25, params.Limit)
	require.Equal(t, 50, params.Offset)
}

func TestGetPaginationParams_InvalidFallsBack(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, "?limit=abc&offset=xyz"))
	require.Equal(t, constants.DefaultPageLimit, params.Limit)
	require.Equal(t, 0, params.Offset)

	params = GetPaginationParams(paginationContext(t, "?limit=-5&offset=-10"))
	require.Equal(t, constants.DefaultPageLimit, params.Limit)
	require.Equal(t, 0, params.Offset)
}

func TestGetPaginationParams_CapsLimit(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, "?limit=5000"))
	require.Equal(t, constants.MaxPageLimit, params.Limit)
}
