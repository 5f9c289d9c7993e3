package api

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// CommunityProxy forwards /api/community requests to the community service.
// The prefix is stripped so the community router sees its own paths.
func CommunityProxy(target string) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(u)
	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.URL.Path = strings.TrimPrefix(r.URL.Path, "/api/community")
		if r.URL.Path == "" {
			r.URL.Path = "/"
		}
		r.Host = u.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		zap.S().Errorw("community proxy error", "path", r.URL.Path, "error", err)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error": "community service unavailable"}`))
	}

	return proxy, nil
}
