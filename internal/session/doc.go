// Package session keeps the per-session entry secret of every logged-in user.
//
// A user's entries are encrypted under a secret the server only learns at
// login: the login password itself (direct key mode) or the unwrapped master
// key (master key mode). The [Vault] holds that secret sealed in a
// memguard enclave, keyed by the session id carried in the access token's
// "jti" claim, until the session is closed or expires.
package session
