package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

type Server interface {
	Start() error
	Stop(ctx context.Context) error
}

var _ Server = &StandardServer{}

type Options struct {
	Addr           string
	AllowedOrigins []string
	Metrics        *Metrics
	Logger         logger.Logger
}

// StandardServer owns one listener. Start and Stop may each be called once.
type StandardServer struct {
	server *http.Server
	log    logger.Logger

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

func NewServer(opts Options, controllers ...Controller) *StandardServer {
	router := http.NewServeMux()

	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			RequestIDHeader,
		},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	var handler http.Handler = createRequestIDMiddleware(log)(router)
	if opts.Metrics != nil {
		handler = opts.Metrics.Middleware(router)(handler)
		router.Handle("GET /metrics", opts.Metrics.Handler())
	}

	for _, controller := range controllers {
		controller.AddRoutes(router)
	}

	return &StandardServer{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           c.Handler(handler),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Start binds the listener synchronously, so address errors surface here,
// then serves in the background.
func (s *StandardServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorw("http server stopped", "error", err)
		}
	}()

	s.log.Infow("http server listening", "addr", ln.Addr().String())
	return nil
}

// Addr is the bound address once started, otherwise the configured one.
func (s *StandardServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Stop drains in-flight requests until ctx expires. Stopping a server that
// never started is a no-op.
func (s *StandardServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.listener != nil
	done := s.done
	s.mu.Unlock()

	if !started {
		return nil
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	<-done
	s.log.Infow("http server stopped")
	return nil
}

// Handler returns the full middleware chain, for tests.
func (s *StandardServer) Handler() http.Handler {
	return s.server.Handler
}

func createRequestIDMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			start := time.Now()
			wrapped := wrap(w)
			next.ServeHTTP(wrapped, r.WithContext(WithRequestID(r.Context(), requestID)))

			log.Debugw("http request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"elapsed", time.Since(start),
			)
		})
	}
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored by the middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusCodeResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func wrap(w http.ResponseWriter) *statusCodeResponseWriter {
	return &statusCodeResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *statusCodeResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
