// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the keyminder command-line client.
//
// It wires cobra commands, the REST adapter, terminal prompts, and the local
// session file into a single process lifecycle. The access token of the last
// login is kept in the session file so later invocations stay authenticated.
package client
