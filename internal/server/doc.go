// Package server runs the short-lived local HTTP server that receives the OAuth2 callback during `moodmix auth login`.
//
// # Router
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// [BasicRouter] uses [http.ServeMux] method patterns, so requests with the wrong method get a 405 from the mux.
//
// # OAuth Callback
//
// [OAuthHandler] validates the state parameter, exchanges the authorization code for a token,
// and sends exactly one [OAuthResult] through its result channel. Later callbacks are rejected.
//
// [CallbackServer] binds the configured host and port, waits for that result, the context, or a timeout,
// and then shuts the listener down.
package server
