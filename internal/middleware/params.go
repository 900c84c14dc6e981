package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
)

const paramKeyPrefix = "param:"

// RequireIDParams parses the named path parameters as positive integers and
// stores them for ParamID. Malformed values are rejected with 400.
func RequireIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			id, err := strconv.ParseUint(c.Param(name), 10, 64)
			if err != nil || id == 0 {
				apierrors.BadRequest(c, fmt.Sprintf("Invalid %s", name))
				c.Abort()
				return
			}
			c.Set(paramKeyPrefix+name, id)
		}
		c.Next()
	}
}

// ParamID returns a path parameter parsed by RequireIDParams.
func ParamID(c *gin.Context, name string) uint64 {
	return c.GetUint64(paramKeyPrefix + name)
}
