package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/business-management-api/internal/constants"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items?"+rawQuery, nil)
	return c
}

func TestGetListParams_Defaults(t *testing.T) {
	params, err := GetListParams(queryContext(""))
	require.NoError(t, err)

	assert.Equal(t, 0, params.Offset)
	assert.Equal(t, constants.DefaultLimit, params.Limit)
	assert.Equal(t, "id", params.SortBy)
	assert.False(t, params.Desc)
}

func TestGetListParams_Custom(t *testing.T) {
	params, err := GetListParams(queryContext("offset=40&limit=10&sort_by=deadline&sort=DESC"))
	require.NoError(t, err)

	assert.Equal(t, 40, params.Offset)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, "deadline", params.SortBy)
	assert.True(t, params.Desc)
}

func TestGetListParams_ClampsLimit(t *testing.T) {
	params, err := GetListParams(queryContext("limit=5000"))
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultLimit, params.Limit)
}

func TestGetListParams_Rejects(t *testing.T) {
	for _, q := range []string{"offset=-1", "offset=abc", "limit=x", "sort=sideways"} {
		_, err := GetListParams(queryContext(q))
		assert.Error(t, err, q)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Str0ng!pass"))

	assert.False(t, ValidatePassword("S0rt!"), "too short")
	assert.False(t, ValidatePassword("Str0ng!passwordthatiswaytoolong1"), "too long")
	assert.False(t, ValidatePassword("str0ng!pass"), "no upper")
	assert.False(t, ValidatePassword("STR0NG!PASS"), "no lower")
	assert.False(t, ValidatePassword("Strong!pass"), "no digit")
	assert.False(t, ValidatePassword("Str0ngpass1"), "no special")
}

func TestGenerateInviteCode(t *testing.T) {
	a, err := GenerateInviteCode()
	require.NoError(t, err)
	b, err := GenerateInviteCode()
	require.NoError(t, err)

	assert.Len(t, a, constants.InvitationCodeLength)
	assert.NotEqual(t, a, b)
}
