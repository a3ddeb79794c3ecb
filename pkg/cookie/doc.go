// Package cookie writes and reads HTTP cookies with a consistent set of
// attributes.
//
// A Manager holds default Options (path "/", HttpOnly, SameSite=Lax) that
// every Set and Delete starts from; per-call Option values override them.
// Options is a plain struct so that attribute resolvers elsewhere can compute
// a complete set and hand it over with WithOptions.
//
//	cookies := cookie.New(cookie.WithSecure(true))
//	_ = cookies.Set(w, "dotproject", id, cookie.WithMaxAge(86400))
//	id, err := cookies.Get(r, "dotproject")
//	cookies.Delete(w, "dotproject")
//
// Delete must be called with the same Path and Domain the cookie was set
// with, otherwise browsers keep the original.
package cookie
