// Package cookie provides HTTP cookie emission with shared secure defaults.
//
// A Manager carries deployment-wide attributes (path, domain, Secure,
// HttpOnly, SameSite) so call sites only state what differs per cookie:
//
//	cookies := cookie.New(cookie.WithSecure(true))
//
//	// Session identifier: kept away from client-side code.
//	cookies.Set(w, "session_id", handle.ID(),
//		cookie.WithMaxAge(maxAge), cookie.WithHTTPOnly(true))
//
//	// CSRF tag: must be readable by scripts that echo it back.
//	cookies.Set(w, "csrf_token", handle.CSRFToken(),
//		cookie.WithMaxAge(maxAge), cookie.WithHTTPOnly(false))
//
// Defaults are Path=/, HttpOnly, SameSite=Lax. Emission fails with
// ErrCookieTooLarge when the encoded header exceeds 4KB.
package cookie
