// Package middleware carries the cross-cutting gin handlers sitting in
// front of the desktop API.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSOptions pins which origins may drive the desktop. The UI shell is
// the only intended caller; an empty origin list falls back to any
// origin, which suits development against a locally served shell.
type CORSOptions struct {
	Origins []string
	MaxAge  time.Duration
}

// CORS builds the cross-origin policy for the API. The method and header
// lists cover exactly what the shell sends; the handle-based routes use
// no verbs beyond GET, POST and DELETE.
func CORS(opts CORSOptions) gin.HandlerFunc {
	if len(opts.Origins) == 0 {
		opts.Origins = []string{"*"}
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = time.Hour
	}
	return cors.New(cors.Config{
		AllowOrigins: opts.Origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "Accept", "Origin"},
		MaxAge:       opts.MaxAge,
	})
}
