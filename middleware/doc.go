// Package middleware provides net/http middleware for session resolution and
// request-authenticity enforcement.
//
// Session resolves or creates the request's session handle, injects it into
// the request context, and derives the outbound session and CSRF cookies from
// the handle's final state. CSRF validates the anti-forgery token on
// state-changing requests before the downstream handler runs.
//
//	mux := http.NewServeMux()
//	mux.Handle("/login", loginHandler)
//
//	var handler http.Handler = mux
//	handler = middleware.CSRF(mgr.Secret(), middleware.CSRFConfig{})(handler)
//	handler = middleware.Session(mgr, cookies, middleware.SessionConfig{
//		GeoIP:  geoResolver,
//		Logger: log,
//	})(handler)
//
//	http.ListenAndServe(":8080", handler)
//
// Handlers access the session through the context:
//
//	func loginHandler(w http.ResponseWriter, r *http.Request) {
//		h := middleware.MustFromContext(r.Context())
//		// ... verify credentials ...
//		if err := mgr.Rotate(r.Context(), h, session.Identity{UserID: userID, Roles: roles}); err != nil {
//			http.Error(w, "login failed", http.StatusInternalServerError)
//			return
//		}
//		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
//	}
//
// The cookies emitted after the redirect carry the rotated id and tag.
package middleware
