// Package gateway implements the API gateway: token verification at the
// edge, then reverse proxying to the downstream services.
package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// Proxy routes requests to downstream services by path prefix. Longest
// prefix wins, so /api/auth and /api/orders can coexist with overlapping
// roots.
type Proxy struct {
	routes []proxyRoute
	logger logging.Logger
}

type proxyRoute struct {
	prefix string
	proxy  *httputil.ReverseProxy
}

func NewProxy(logger logging.Logger) *Proxy {
	return &Proxy{logger: logger}
}

// Mount registers a downstream service for all paths under prefix.
func (p *Proxy) Mount(prefix, target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("proxy target %q: %w", target, err)
	}

	rp := httputil.NewSingleHostReverseProxy(u)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		p.logger.Error(r.Context(), "downstream unavailable",
			"target", target, "path", r.URL.Path, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"message":"Service unavailable"}`))
	}

	p.routes = append(p.routes, proxyRoute{prefix: prefix, proxy: rp})
	return nil
}

// Handler dispatches to the mounted downstream whose prefix matches the
// request path. Unmatched paths get a 404 envelope.
func (p *Proxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		var best *proxyRoute
		for i := range p.routes {
			r := &p.routes[i]
			if !matchesPrefix(path, r.prefix) {
				continue
			}
			if best == nil || len(r.prefix) > len(best.prefix) {
				best = r
			}
		}
		if best == nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
			return
		}
		best.proxy.ServeHTTP(c.Writer, c.Request)
	}
}

func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
