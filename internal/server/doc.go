// Package server provides HTTP routing, middleware, and handlers for the conversion API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # API Handlers
//
// Each endpoint group implements the [Handler] interface, which wraps the stdlib
// handler interface and adds Routes, allowing handlers to register multiple
// routes and encapsulate route definitions within the implementation:
//   - [HealthHandler] : GET /health readiness probe
//   - [SearchHandler] : POST /search and POST /search-batch
//   - [ConversionHandler] : conversion job lifecycle (start, status, cancel)
//   - [PlaylistHandler] : playlist creation and item appends
//
// All responses share the JSON envelope {"success": bool, ...}; failures add
// an "error" field. Handler faults surface as envelope errors, never panics.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// When the user runs the auth setup command, a temporary HTTP server starts on
// localhost:3000, handles the Google callback, and shuts down after receiving
// the OAuth token.
package server
