package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/fulmenhq/gofulmen/errors"
)

// corsAllowMethods is advertised on preflight responses; every method is allowed.
const corsAllowMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	// AllowedOrigins are exact origins; "*" admits every origin.
	AllowedOrigins []string
	// AllowedOriginRegex must match the whole origin.
	AllowedOriginRegex string
	AllowCredentials   bool
	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int
}

type corsPolicy struct {
	exact       map[string]struct{}
	allowAll    bool
	originRegex *regexp.Regexp
	credentials bool
	maxAge      string
}

// CORS returns middleware that applies opts. Preflight requests from an
// allowed origin are answered directly with 200; preflights from any other
// origin get 400. Non-preflight requests always reach next, with CORS headers
// only when the origin is allowed.
func CORS(opts CORSOptions) (func(http.Handler) http.Handler, error) {
	policy := &corsPolicy{
		exact:       make(map[string]struct{}, len(opts.AllowedOrigins)),
		credentials: opts.AllowCredentials,
		maxAge:      strconv.Itoa(opts.MaxAge),
	}
	for _, origin := range opts.AllowedOrigins {
		if origin == "*" {
			policy.allowAll = true
			continue
		}
		policy.exact[origin] = struct{}{}
	}
	if opts.AllowedOriginRegex != "" {
		re, err := regexp.Compile("^(?:" + opts.AllowedOriginRegex + ")$")
		if err != nil {
			return nil, fmt.Errorf("invalid CORS origin regex: %w", err)
		}
		policy.originRegex = re
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				policy.preflight(w, r, origin)
				return
			}

			if policy.allowed(origin) {
				policy.setOriginHeaders(w.Header(), origin)
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

func (p *corsPolicy) allowed(origin string) bool {
	if p.allowAll {
		return true
	}
	if _, ok := p.exact[origin]; ok {
		return true
	}
	return p.originRegex != nil && p.originRegex.MatchString(origin)
}

func (p *corsPolicy) setOriginHeaders(h http.Header, origin string) {
	if p.allowAll && !p.credentials {
		h.Set("Access-Control-Allow-Origin", "*")
	} else {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	}
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

func (p *corsPolicy) preflight(w http.ResponseWriter, r *http.Request, origin string) {
	if !p.allowed(origin) {
		envelope := errors.NewErrorEnvelope("INVALID_INPUT", "Disallowed CORS origin").
			WithCorrelationID(GetRequestID(r.Context()))
		envelope = envelope.WithDetails(map[string]interface{}{"origin": origin})
		writeErrorResponse(w, envelope, http.StatusBadRequest)
		return
	}

	h := w.Header()
	p.setOriginHeaders(h, origin)
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Max-Age", p.maxAge)
	if requested := strings.TrimSpace(r.Header.Get("Access-Control-Request-Headers")); requested != "" {
		h.Set("Access-Control-Allow-Headers", requested)
	}
	h.Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
