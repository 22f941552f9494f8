// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains message strings shared by the KeyMinder server
// handlers and the command-line client.
//
// Msg* constants are written into HTTP response bodies. MsgHint* constants
// are printed by the client below an error to tell the user what to do next.
package app

const (
	// MsgUserRegistered confirms a new account; the response also carries a session.
	MsgUserRegistered = "user registered"

	MsgLoginSuccessful = "login successful"
	MsgLoggedOut       = "logged out"

	// MsgPasswordChanged is returned after the login password was replaced
	// and every entry was re-protected under it.
	MsgPasswordChanged = "password changed"

	MsgEntryCreated = "password entry created"
	MsgEntryUpdated = "password entry updated"
	MsgEntryDeleted = "password entry deleted"

	// MsgRouteNotFound is the body of every 404 produced by the router itself.
	MsgRouteNotFound = "route not found"

	// MsgInvalidGzipData is returned when a request claims gzip encoding but
	// its body is not a gzip stream.
	MsgInvalidGzipData = "invalid gzip data"
)

const (
	MsgHintLogin = "run `keyminder login` first"

	// MsgHintSessionExpired follows a 401 on a request that carried a token:
	// the server forgot the session or the token expired.
	MsgHintSessionExpired = "your session has ended, run `keyminder login` again"

	MsgHintServerUnavailable = "the server is not reachable, check --server and `keyminder status`"
)
