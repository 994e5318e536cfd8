package server

import "strings"

const (
	AllProductsRoute = "catalogue:index"
	CategoryRoute    = "catalogue:category"
)

// Routes maps route names to path patterns. Patterns use {name} for path
// parameters the way http.ServeMux does.
type Routes map[string]string

func DefaultRoutes() Routes {
	return Routes{
		AllProductsRoute: "/catalogue/",
		CategoryRoute:    "/catalogue/category/{slug}/",
	}
}

// Reverse resolves a route name to a path, filling parameters in order.
// Unknown names resolve to "/".
func (r Routes) Reverse(name string, args ...string) string {
	pattern, ok := r[name]
	if !ok {
		return "/"
	}
	for _, arg := range args {
		start := strings.IndexByte(pattern, '{')
		end := strings.IndexByte(pattern, '}')
		if start < 0 || end < start {
			break
		}
		pattern = pattern[:start] + arg + pattern[end+1:]
	}
	return pattern
}
