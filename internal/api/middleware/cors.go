package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Methods and headers the agent's API accepts from browsers.
var (
	corsMethods = []string{"GET", "POST", "OPTIONS"}
	corsHeaders = []string{
		"Content-Type",
		"Content-Length",
		"Accept",
		"Origin",
		"Cache-Control",
		"X-Requested-With",
		RequestIDHeader,
	}
	originSchemes = []string{"http://", "https://", "ws://", "wss://"}
)

const corsMaxAge = 12 * time.Hour

// CORSPolicy says which browser origins may call the agent. Credentials are
// never allowed.
type CORSPolicy struct {
	anyOrigin bool
	origins   []string
	maxAge    time.Duration
}

// NewCORSPolicy builds a policy from configured origins. An empty list or a
// "*" entry allows any origin. A listed origin may end in a single "*" to
// match a prefix such as "http://192.168.1.*".
func NewCORSPolicy(origins []string) (CORSPolicy, error) {
	p := CORSPolicy{maxAge: corsMaxAge}
	for _, o := range origins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		switch {
		case o == "":
			continue
		case o == "*":
			return CORSPolicy{anyOrigin: true, maxAge: corsMaxAge}, nil
		}
		if err := validateOrigin(o); err != nil {
			return CORSPolicy{}, err
		}
		p.origins = append(p.origins, o)
	}
	p.anyOrigin = len(p.origins) == 0
	return p, nil
}

// AnyOrigin returns the permissive policy.
func AnyOrigin() CORSPolicy {
	return CORSPolicy{anyOrigin: true, maxAge: corsMaxAge}
}

// AllowsAnyOrigin reports whether every origin is accepted.
func (p CORSPolicy) AllowsAnyOrigin() bool {
	return p.anyOrigin
}

// Origins lists the accepted origins; nil when any origin is accepted.
func (p CORSPolicy) Origins() []string {
	return append([]string(nil), p.origins...)
}

func validateOrigin(o string) error {
	hasScheme := false
	for _, s := range originSchemes {
		if strings.HasPrefix(o, s) {
			hasScheme = true
			break
		}
	}
	if !hasScheme {
		return fmt.Errorf("cors origin %q: must start with http://, https://, ws:// or wss://", o)
	}
	if i := strings.Index(o, "*"); i >= 0 && i != len(o)-1 {
		return fmt.Errorf("cors origin %q: only a trailing * is supported", o)
	}
	return nil
}

func (p CORSPolicy) config() cors.Config {
	cfg := cors.Config{
		AllowMethods:    corsMethods,
		AllowHeaders:    corsHeaders,
		ExposeHeaders:   []string{RequestIDHeader},
		AllowWebSockets: true,
		MaxAge:          p.maxAge,
	}
	if p.anyOrigin {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = p.Origins()
	cfg.AllowWildcard = true
	return cfg
}

// CORS answers preflights and rejects requests from origins outside p with 403.
func CORS(p CORSPolicy) gin.HandlerFunc {
	return cors.New(p.config())
}
