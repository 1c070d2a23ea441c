// Package auth decides who is behind an http request.
//
// Every strategy implements the same contract (Strategy): it tells which
// paths need authentication, how to read credentials from a request and
// how to turn those credentials into a user.
//
// Strategies build on each other by wrapping, each layer adds a single
// concern:
//
//	Base                       no credentials are ever accepted
//	BasicAuth                  Authorization: Basic <base64(email:password)>
//	SessionAuth                session id cookie, sessions kept in a SessionStore
//	ExpiringSessionAuth        SessionAuth + time to live
//	PersistentSessionAuth      ExpiringSessionAuth with sessions in a RecordStore
//
// Authenticate reports why a request was not accepted, CurrentUser
// collapses every failure to nil. Callers deciding access should use
// CurrentUser (or treat every error the same way) so responses do not
// reveal which step failed.
//
// Expired sessions are not removed, they simply stop resolving to a user.
// Since the creation time of a session never changes, once expired a
// session can never be used again.
package auth
