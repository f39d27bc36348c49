package router

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/event"
	"github.com/radif/imagemeta/internal/metrics"
	appMiddleware "github.com/radif/imagemeta/internal/middleware"
	"github.com/radif/imagemeta/internal/response"
)

const defaultMaxBody = 10 << 20

// HTTPOptions configures the HTTP front end.
type HTTPOptions struct {
	Log            *zap.Logger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	JWTSecret      string
	MaxBodyBytes   int64
}

type httpAdapter struct {
	router  *Router
	log     *zap.Logger
	maxBody int64
}

// NewHTTPHandler serves the dispatcher over HTTP. The four image routes are
// registered explicitly only to capture {imageId}; every other request also
// reaches the dispatcher, which alone decides what is routable. Auth applies
// only to requests the dispatcher would route, so unroutable requests get
// "Invalid route" rather than 401.
func NewHTTPHandler(rt *Router, opts HTTPOptions) http.Handler {
	a := &httpAdapter{router: rt, log: opts.Log, maxBody: opts.MaxBodyBytes}
	if a.maxBody <= 0 {
		a.maxBody = defaultMaxBody
	}
	dispatch := appMiddleware.RequireAuth(opts.JWTSecret)(http.HandlerFunc(a.serve))
	fallback := func(w http.ResponseWriter, r *http.Request) {
		if name, _ := rt.match(strings.ToUpper(r.Method), r.URL.Path); name == RouteInvalid {
			a.serve(w, r)
			return
		}
		dispatch.ServeHTTP(w, r)
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(opts.Log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Method(http.MethodPost, "/upload", dispatch)
	r.Method(http.MethodGet, "/list", dispatch)
	r.Method(http.MethodGet, "/view/{imageId}", dispatch)
	r.Method(http.MethodDelete, "/delete/{imageId}", dispatch)
	r.NotFound(fallback)
	r.MethodNotAllowed(fallback)

	return r
}

func (a *httpAdapter) serve(w http.ResponseWriter, r *http.Request) {
	req := event.Request{
		HTTPMethod: r.Method,
		Path:       r.URL.Path,
	}

	if r.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxBody))
		if err != nil {
			// Leave the body empty; upload then rejects it as invalid input.
			a.log.Warn("read request body", zap.String("path", r.URL.Path), zap.Error(err))
		} else {
			req.Body = string(body)
		}
	}

	if q := r.URL.Query(); len(q) > 0 {
		req.QueryStringParameters = make(map[string]string, len(q))
		for k := range q {
			req.QueryStringParameters[k] = q.Get(k)
		}
	}
	// chi matches on RawPath when set, leaving the segment escaped.
	id := chi.URLParam(r, "imageId")
	if u, err := url.PathUnescape(id); err == nil {
		id = u
	}
	if id == "" {
		id = imageIDFromPath(r.URL.Path)
	}
	if id != "" {
		req.PathParameters = map[string]string{"imageId": id}
	}

	resp, err := a.router.Route(r.Context(), req)
	if err != nil {
		a.log.Error("handler failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		response.Write(w, response.InternalError())
		return
	}
	response.Write(w, resp)
}

// imageIDFromPath covers prefixed routes such as /v1/view/{id} that chi does not capture.
func imageIDFromPath(path string) string {
	for _, marker := range []string{"/view/", "/delete/"} {
		if i := strings.LastIndex(path, marker); i >= 0 {
			id := path[i+len(marker):]
			if id != "" && !strings.Contains(id, "/") {
				return id
			}
		}
	}
	return ""
}
