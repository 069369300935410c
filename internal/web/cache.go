package web

import (
	"strings"

	"digiparc/framework/httpserver"
	"digiparc/internal/config"
)

const (
	staticURLPrefix = "/static/"

	cacheControlPublicHour = "public, max-age=3600, s-maxage=3600"
	cacheControlPrivate    = "private, no-cache"
)

// cachePolicies keeps entity pages private since they show backend
// records, while static assets stay publicly cacheable.
func cachePolicies(cfg config.Config) httpserver.CachePolicies {
	policies := httpserver.CachePolicies{
		HTML:   cacheControlPrivate,
		Live:   cacheControlPrivate,
		Static: cacheControlPublicHour,
		Health: "no-store",
		Error:  "no-store",
	}
	if liveNavigation := strings.TrimSpace(cfg.CacheLiveNavigation); liveNavigation != "" {
		policies.LiveNavigation = liveNavigation
	}
	return policies
}
