// Package services implements the [Catalog] interface for YouTube Music.
//
// # Catalog Interface
//
// The conversion pipeline only talks to the catalog through [Catalog], so
// tests swap in mocks and the upstream can move without touching callers.
//
// # YouTube Music Implementation
//
// [YouTubeMusicService] communicates with a ytmusicapi proxy server.
//
// The proxy wraps the YouTube Music private API behind plain REST endpoints.
// Requests authenticate with a bearer token from [TokenStore], or with a
// raw browser headers file sent via the X-Auth-File header when configured.
//
// # Token Store
//
// [TokenStore] persists Google OAuth tokens to disk in the same JSON layout
// ytmusicapi writes (access_token, refresh_token, expires_at). Expired access
// tokens are refreshed through golang.org/x/oauth2 and the refreshed token is
// written back to the file, so the proxy and this service share credentials.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : token file has no refresh token
//   - [shared.ErrRefreshFailed] : OAuth token refresh failed
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistCreate] : playlist creation rejected upstream
package services
