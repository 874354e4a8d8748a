package middleware

import (
	"github.com/valyala/fasthttp"

	"github.com/fastygo/coachly/internal/config"
)

// CORS sets the allow headers on every response and answers preflight
// requests with 204 before routing.
func CORS(cfg config.CORSConfig) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = "*"
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			header := &ctx.Response.Header
			header.Set("Access-Control-Allow-Origin", cfg.AllowOrigin)
			if cfg.AllowHeaders != "" {
				header.Set("Access-Control-Allow-Headers", cfg.AllowHeaders)
			}
			if cfg.AllowMethods != "" {
				header.Set("Access-Control-Allow-Methods", cfg.AllowMethods)
			}

			if ctx.IsOptions() {
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}
