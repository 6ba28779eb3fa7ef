package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"philcali.me/catalog/internal/app"
	"philcali.me/catalog/internal/config"
	"philcali.me/catalog/internal/logging"
	"philcali.me/catalog/internal/routes"
)

const MAX_BODY_BYTES = 1 << 20

// toEvent shapes a net/http request the way API Gateway hands it to the function.
func toEvent(r *http.Request) (events.APIGatewayV2HTTPRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MAX_BODY_BYTES))
	if err != nil {
		return events.APIGatewayV2HTTPRequest{}, err
	}
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		headers[strings.ToLower(name)] = strings.Join(values, ",")
	}
	var params map[string]string
	if query := r.URL.Query(); len(query) > 0 {
		params = make(map[string]string, len(query))
		for name, values := range query {
			params[name] = strings.Join(values, ",")
		}
	}
	requestId := r.Header.Get("X-Request-Id")
	if requestId == "" {
		requestId = uuid.NewString()
	}
	event := events.APIGatewayV2HTTPRequest{
		Version:               "2.0",
		RouteKey:              "$default",
		RawPath:               r.URL.Path,
		RawQueryString:        r.URL.RawQuery,
		Headers:               headers,
		QueryStringParameters: params,
		Body:                  string(body),
	}
	event.RequestContext.RequestID = requestId
	event.RequestContext.HTTP.Method = r.Method
	event.RequestContext.HTTP.Path = r.URL.Path
	event.RequestContext.HTTP.Protocol = r.Proto
	event.RequestContext.HTTP.SourceIP = r.RemoteAddr
	event.RequestContext.HTTP.UserAgent = r.UserAgent()
	return event, nil
}

func lambdaHandler(router *routes.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := toEvent(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		response := router.Invoke(event, r.Context())
		for name, value := range response.Headers {
			w.Header().Set(name, value)
		}
		w.WriteHeader(response.StatusCode)
		if _, err := io.WriteString(w, response.Body); err != nil {
			log.Warn().Err(err).Msg("Failed to write response")
		}
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}

func NewHandler(router *routes.Router) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", lambdaHandler(router))
	return mux
}

func main() {
	cfg, err := config.LoadListings()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           NewHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down cleanly")
		}
	}()

	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("table", cfg.TableName).
		Str("collection", cfg.Collection).
		Msg("Starting listings server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
