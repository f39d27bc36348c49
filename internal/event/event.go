// Package event defines the transport-neutral request and response shapes
// handled by the route dispatcher. Both the HTTP server and the Lambda entry
// point translate into these types.
package event

// Request is an HTTP-style event: method, path, optional body and parameters.
type Request struct {
	HTTPMethod            string
	Path                  string
	Body                  string
	QueryStringParameters map[string]string
	PathParameters        map[string]string
}

// Query returns the named query parameter, or "" when absent.
func (r Request) Query(name string) string {
	return r.QueryStringParameters[name]
}

// PathParam returns the named path parameter, or "" when absent.
func (r Request) PathParam(name string) string {
	return r.PathParameters[name]
}

// Response carries a status code and a JSON body back to the transport.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}
