// Package session implements database-backed server-side sessions.
//
// A Store persists one row per session id with an opaque data blob, an
// optional owner reference and creation/update timestamps. Expiration is
// evaluated against the store's clock with a Policy built from named
// settings on every call:
//
//	session_idle_time     maximum gap since the last write (default 1d)
//	session_max_lifetime  maximum age since creation (default 1d)
//
// Values use the forms "<n>" (seconds) or "<n><unit>" with unit h, d,
// m (30 days) or y (365 days). See ParseTimeout.
//
// Expired sessions are removed in two places. Store.Read destroys an
// expired row it is asked for and reports ErrSessionNotFound joined with
// ErrSessionExpired. Collector.Collect sweeps every expired row. Both close
// the linked entry of the user_access_log table in the same statement that
// deletes the session, so a log entry is never closed for a live session.
//
// # Usage
//
//	store := session.NewPostgresStore(pool)
//	mgr := session.New(
//	    session.WithStore(store),
//	    session.WithSettings(settings),
//	    session.WithLogger(log),
//	)
//
//	router.Use(mgr.Middleware)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    sess.Set("tab", 2)
//	}
//
//	// Periodic maintenance, one pass per interval across instances.
//	gc := session.NewCollector(store, settings,
//	    session.WithLocker(session.NewRedisLocker(rdb), session.DefaultLockKey, 4*time.Minute))
//	go gc.Run(ctx, 5*time.Minute)
//
// # Cookies
//
// ResolveCookie derives Path, Domain and Secure from the base_url setting.
// Hosts that are localhost or an IP literal get a host-only cookie. With
// session_handling set to "app" the cookie lives for session_max_lifetime;
// otherwise it ends with the browser session.
package session
