// Package guard provides the access-control core: session-backed
// authentication plus a voter-based authorization engine, independent of any
// web transport.
//
// Authentication:
//   - Authenticator resolves a persisted session into a verified identity at
//     most once per logical session, runs pluggable credential strategies
//     (password, remember-token), and guards against stale sessions with a
//     password-hash fingerprint. Any integrity failure forces a logout to the
//     anonymous identity, fail closed.
//   - Credentials are a closed tagged union (PasswordCredential,
//     TokenCredential); strategies register by name and are probed in
//     registration order.
//   - Attempt outcomes are Result values built through factory helpers;
//     authentication failures are data, never errors.
//
// Authorization lives in the authorize package: independent voters return
// ALLOW/DENY/ABSTAIN and an Authorizer reduces them under a configurable
// decision strategy, backed by a priority-sorted policy store.
//
// Session adapters (in-memory, Redis) live in the sessions package. The
// reference user storage is a bun repository; applications with their own
// persistence implement Authenticatable and UserProvider instead.
package guard
