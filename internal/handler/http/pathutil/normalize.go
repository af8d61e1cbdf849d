// Package pathutil maps request paths to bounded metric labels.
package pathutil

import (
	"strings"
)

// OtherPath labels every path the server does not route.
const OtherPath = "other"

// knownPaths is the closed set of routed paths. Anything else, including
// scanner noise, collapses to OtherPath so label cardinality stays fixed.
var knownPaths = map[string]struct{}{
	"/v1/summarize": {},
	"/v1/translate": {},
	"/v1/status":    {},
	"/health":       {},
	"/ready":        {},
	"/metrics":      {},
	"/swagger":      {},
}

// NormalizePath returns the metric label for path.
//
//	NormalizePath("/v1/summarize")       // "/v1/summarize"
//	NormalizePath("/v1/summarize/")      // "/v1/summarize"
//	NormalizePath("/v1/status?x=1")      // "/v1/status"
//	NormalizePath("/swagger/index.html") // "/swagger"
//	NormalizePath("/wp-login.php")       // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if strings.HasPrefix(path, "/swagger/") {
		return "/swagger"
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return OtherPath
}

// ExpectedCardinality is the number of distinct labels NormalizePath can return.
func ExpectedCardinality() int {
	return len(knownPaths) + 1
}
