package middleware

import (
	"crypto/subtle"
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"ldb/src/app/http/response"
)

const bearerPrefix = "Bearer "

// TokenAuth requires "Authorization: Bearer <token>" on every request.
//
// With an empty token no bearer token can match, so only clients connecting
// from a loopback address are let through. The peer address is taken from
// the connection, never from forwarding headers.
func TokenAuth(token string) gin.HandlerFunc {
	want := []byte(token)

	return func(c *gin.Context) {
		requestID := GetRequestID(c)

		if token == "" {
			if !fromLoopback(c.Request.RemoteAddr) {
				response.Unauthorized(c, "API token not configured; only local clients are accepted", requestID)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing Authorization header", requestID)
			c.Abort()
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			response.Unauthorized(c, "expected a bearer token", requestID)
			c.Abort()
			return
		}

		got := []byte(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			response.Unauthorized(c, "invalid token", requestID)
			c.Abort()
			return
		}

		c.Next()
	}
}

func fromLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
