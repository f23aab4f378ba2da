// Package middleware authenticates net/http requests with tokens produced by
// package jws.
//
// [Authenticate] extracts a token from the request, decodes it with the
// configured key and stores the claims in the request context, where handlers
// read them with [ClaimsFromContext]. Rejected requests get a JSON error body
// whose "error" field tells an expired token apart from a forged one.
//
//	r := chi.NewRouter()
//	r.Use(middleware.Authenticate(middleware.Config{Key: secret}))
//	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
//		claims, _ := middleware.ClaimsFromContext(r.Context())
//		...
//	})
//
// An optional [AttemptLimiter] throttles clients that keep presenting bad
// tokens.
package middleware
