// Package router dispatches HTTP-style events to the image handlers and
// adapts the HTTP server and API Gateway proxy events onto that dispatcher.
package router

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/event"
	"github.com/radif/imagemeta/internal/image"
	"github.com/radif/imagemeta/internal/metrics"
	"github.com/radif/imagemeta/internal/response"
)

// HandlerFunc handles one dispatched event.
type HandlerFunc func(ctx context.Context, req event.Request) (event.Response, error)

// Route names, used in logs and metrics.
const (
	RouteUpload  = "upload"
	RouteList    = "list"
	RouteView    = "view"
	RouteDelete  = "delete"
	RouteInvalid = "invalid"
)

const msgInvalidRoute = "Invalid route"

// Router picks exactly one image handler per event by path and method.
type Router struct {
	upload HandlerFunc
	list   HandlerFunc
	view   HandlerFunc
	delete HandlerFunc

	log     *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Router over h. m may be nil.
func New(h *image.Handler, log *zap.Logger, m *metrics.Metrics) *Router {
	return &Router{
		upload:  h.Upload,
		list:    h.List,
		view:    h.View,
		delete:  h.Delete,
		log:     log,
		metrics: m,
	}
}

// match applies the routing table. Paths are matched by suffix or substring,
// so "/v1/images/upload" is an upload and "/view/" with the wrong method is invalid.
func (rt *Router) match(method, path string) (string, HandlerFunc) {
	switch {
	case strings.HasSuffix(path, "/upload") && method == http.MethodPost:
		return RouteUpload, rt.upload
	case strings.HasSuffix(path, "/list") && method == http.MethodGet:
		return RouteList, rt.list
	case strings.Contains(path, "/view/") && method == http.MethodGet:
		return RouteView, rt.view
	case strings.Contains(path, "/delete/") && method == http.MethodDelete:
		return RouteDelete, rt.delete
	default:
		return RouteInvalid, nil
	}
}

// Route dispatches req. Unmatched events get 400 "Invalid route". A handler
// error is returned as is; the transport decides how to fail.
func (rt *Router) Route(ctx context.Context, req event.Request) (event.Response, error) {
	method := strings.ToUpper(req.HTTPMethod)
	rt.log.Info("Received "+method+" "+req.Path,
		zap.String("method", method),
		zap.String("path", req.Path))

	name, fn := rt.match(method, req.Path)
	if fn == nil {
		rt.observe(name, strconv.Itoa(http.StatusBadRequest))
		return response.BadRequest(msgInvalidRoute), nil
	}

	resp, err := fn(ctx, req)
	if err != nil {
		rt.observe(name, "error")
		return event.Response{}, err
	}
	rt.observe(name, strconv.Itoa(resp.StatusCode))
	return resp, nil
}

func (rt *Router) observe(route, outcome string) {
	if rt.metrics != nil {
		rt.metrics.ObserveOperation(route, outcome)
	}
}
