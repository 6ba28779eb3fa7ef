package routes

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"philcali.me/catalog/internal/exceptions"
	"philcali.me/catalog/internal/metrics"
	"philcali.me/catalog/internal/routes/filters"
	"philcali.me/catalog/internal/routes/util"
)

type Route func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error)

type Service interface {
	GetRoutes() map[string]Route
}

type CachedRoute struct {
	Key    string
	Method string
	Path   string
	Route  Route
}

func (cr *CachedRoute) MatchEvent(method string, path string) bool {
	return method == cr.Method && path == cr.Path
}

type Router struct {
	// Prefix is stripped from incoming paths, e.g. "/_functions".
	Prefix  string
	Filters []filters.RequestFilter
	Routes  []CachedRoute
}

type errorBody struct {
	Error string `json:"error"`
}

func NewRouter(services ...Service) *Router {
	var routes []CachedRoute
	for _, service := range services {
		serviceRoutes := service.GetRoutes()
		composites := maps.Keys(serviceRoutes)
		sort.Strings(composites)
		for _, composite := range composites {
			parts := strings.SplitN(composite, ":", 2)
			routes = append(routes, CachedRoute{
				Key:    composite,
				Method: parts[0],
				Path:   parts[1],
				Route:  serviceRoutes[composite],
			})
		}
	}
	return &Router{
		Routes: routes,
		Filters: []filters.RequestFilter{
			filters.DefaultCorsFilter(),
			filters.DefaultMethodFilter(),
		},
	}
}

func (r *Router) WithPrefix(prefix string) *Router {
	r.Prefix = strings.TrimSuffix(prefix, "/")
	return r
}

func (r *Router) normalize(rawPath string) string {
	path := strings.TrimPrefix(rawPath, r.Prefix)
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}
	return path
}

func translateError(err error, ctx context.Context) events.APIGatewayV2HTTPResponse {
	statusCode := exceptions.StatusCode(err)
	logger := zerolog.Ctx(ctx)
	if statusCode >= 500 {
		logger.Error().Err(err).Int("status", statusCode).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Int("status", statusCode).Msg("Request rejected")
	}
	body, marshalErr := json.Marshal(errorBody{Error: err.Error()})
	if marshalErr != nil {
		body = []byte("{\"error\": \"Unexpected internal error\"}")
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    util.JSONHeaders(body),
	}
}

func (r *Router) dispatch(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, string) {
	filterContext := filters.DefaultFilterContext(event, ctx)
	for _, filter := range r.Filters {
		updatedContext, broken := filter.Filter(filterContext)
		if broken {
			return *updatedContext.Response, "filtered"
		}
		filterContext = updatedContext
	}
	method := filterContext.Request.RequestContext.HTTP.Method
	path := r.normalize(filterContext.Request.RawPath)
	for _, route := range r.Routes {
		if route.MatchEvent(method, path) {
			resp, err := route.Route(*filterContext.Request, *filterContext.Context)
			if err != nil {
				return translateError(err, ctx), route.Key
			}
			return resp, route.Key
		}
	}
	return translateError(exceptions.NotFound("route", event.RawPath), ctx), "unmatched"
}

func (r *Router) Invoke(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	start := time.Now()
	requestId := event.RequestContext.RequestID
	if requestId == "" {
		requestId = uuid.NewString()
	}
	logger := log.With().
		Str("request_id", requestId).
		Str("method", event.RequestContext.HTTP.Method).
		Str("path", event.RawPath).
		Logger()
	ctx = logger.WithContext(ctx)
	response, routeKey := r.dispatch(event, ctx)
	metrics.ObserveRequest(routeKey, response.StatusCode)
	logger.Info().
		Str("route", routeKey).
		Int("status", response.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Handled request")
	return response
}
