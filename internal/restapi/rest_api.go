package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"campusnav.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimiter
}

// NewRestAPI creates a RestAPI with a per-key rate limiter built from the
// config. A zero rate limit turns limiting off.
func NewRestAPI(app *app.Application) *RestAPI {
	perSecond := app.Config.RateLimit
	if perSecond == 0 {
		perSecond = -1
	}
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimiter(perSecond, app.Config.RateBurst, time.Second),
	}
}

// Handler returns the router wrapped in the middleware chain.
func (api *RestAPI) Handler() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)

	var handler http.Handler = router
	handler = api.rateLimiter.Handler(handler)
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}

// Close stops background work owned by the API.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}
