package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes configures the maximum request body size (<= 0 restores 1 MiB).
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// CORS configuration. When disabled no CORS middleware is installed.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for routers built afterwards.
// Empty methods or headers fall back to GET/POST/OPTIONS and Content-Type.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
	if len(corsAllowedMethods) == 0 {
		corsAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(corsAllowedHeaders) == 0 {
		corsAllowedHeaders = []string{"Content-Type", "X-Log-Level"}
	}
}

// pageTitle and pageModel are rendered on the index page.
var (
	pageTitle = "queryd"
	pageModel string
)

// SetPageInfo sets the title and model label shown on the index page.
func SetPageInfo(title, model string) {
	if title != "" {
		pageTitle = title
	}
	pageModel = model
}
