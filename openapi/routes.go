package openapi

import (
	"fmt"
	"strings"

	"github.com/Gobd/apispec/manifest"
	"github.com/getkin/kin-openapi/openapi3"
)

// Status is the outcome of one route.
type Status string

// Route outcomes.
const (
	Documented Status = "documented"
	Skipped    Status = "skipped"
)

// RouteResult is the outcome of one route of the manifest.
type RouteResult struct {
	Method      manifest.HTTPMethod
	Path        string
	Handler     string
	Status      Status
	Reason      string
	OperationID string
}

// Report lists the outcome of every route in manifest order.
type Report []RouteResult

// Count returns the number of routes with status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, res := range r {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Skip reasons.
const (
	reasonHead        = "HEAD is documented with GET"
	reasonExcluded    = "excluded path"
	reasonNotIncluded = "path not included"
	reasonClosure     = "closure handler"
	reasonNoClass     = "class not found"
	reasonNoMethod    = "method not found"
	reasonOptedOut    = "opted out"
	reasonNoOptIn     = "not opted in"
	reasonDuplicate   = "duplicate route"
)

// internalPrefixes are framework and tooling routes that are never
// documented.
var internalPrefixes = []string{
	"/_ignition",
	"/_debugbar",
	"/sanctum",
	"/telescope",
	"/horizon",
	"/livewire",
	"/broadcasting",
	"/storage",
	"/up",
}

// route documents one route or says why it was skipped.
func (r *run) route(route manifest.Route) (res RouteResult) {
	res = RouteResult{Method: route.Method, Path: route.Path, Handler: route.Handler, Status: Skipped}

	if reason, ok := r.filter(route); !ok {
		res.Reason = reason
		return res
	}
	class, method, ok := route.Target()
	if !ok {
		res.Reason = reasonClosure
		return res
	}
	ctrl, ok := r.ix.Controller(class)
	if !ok {
		res.Reason = reasonNoClass
		return res
	}
	m, ok := ctrl.Methods[method]
	if !ok || m == nil {
		res.Reason = reasonNoMethod
		return res
	}
	if reason, ok := r.gate(ctrl, m); !ok {
		res.Reason = reason
		return res
	}
	if item := r.doc.Paths.Value(route.Path); item != nil && item.GetOperation(string(route.Method)) != nil {
		res.Reason = reasonDuplicate
		return res
	}

	op, err := r.safeOperation(route, class, method, ctrl, m)
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	AddPath(route.Path, string(route.Method), r.doc, op)
	res.Status = Documented
	res.OperationID = op.OperationID
	return res
}

// filter applies the path allowlist and denylists.
func (r *run) filter(route manifest.Route) (string, bool) {
	if route.Method == manifest.MethodHead {
		return reasonHead, false
	}
	for _, p := range internalPrefixes {
		if hasPathPrefix(route.Path, p) {
			return reasonExcluded, false
		}
	}
	for _, p := range r.cfg.Routes.Exclude {
		if hasPathPrefix(route.Path, p) {
			return reasonExcluded, false
		}
	}
	if len(r.cfg.Routes.Include) == 0 {
		return "", true
	}
	for _, p := range r.cfg.Routes.Include {
		if hasPathPrefix(route.Path, p) {
			return "", true
		}
	}
	return reasonNotIncluded, false
}

// hasPathPrefix matches whole segments: "/api" matches "/api" and
// "/api/users" but not "/apis".
func hasPathPrefix(path, prefix string) bool {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// gate applies the opt-out and opt-in switches. An explicit false on the
// method or its class skips the route. With require_opt_in set, the
// method or its class must say true.
func (r *run) gate(ctrl *manifest.Controller, m *manifest.Method) (string, bool) {
	if m.Document != nil && !*m.Document || ctrl.Document != nil && !*ctrl.Document {
		return reasonOptedOut, false
	}
	if r.cfg.Routes.RequireOptIn && !isTrue(m.Document) && !isTrue(ctrl.Document) {
		return reasonNoOptIn, false
	}
	return "", true
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

// safeOperation builds the operation, turning a panic inside any builder
// into an error for this route alone.
func (r *run) safeOperation(route manifest.Route, class, method string, ctrl *manifest.Controller, m *manifest.Method) (op *openapi3.Operation, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			r.log.Error().Str("route", route.Path).Str("class", class).Str("method", method).
				Interface("panic", rv).Msg("operation builder failed")
			op, err = nil, fmt.Errorf("build failed: %v", rv)
		}
	}()
	return r.operation(route, class, method, ctrl, m)
}
