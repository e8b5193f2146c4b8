// Package seal models the journal's optional cryptographic sealing as an
// opaque oracle with a monotonic epoch counter (spec.md: "the
// cryptographic 'forward-secure' seal algorithm... treated as an opaque
// HMAC oracle"). The storage core never interprets a Tag's MAC bytes; it
// only knows how to ask this package to produce one and to bump the
// epoch.
//
// The default Oracle is a plain HMAC-SHA256 over a fixed key, useful for
// local testing and for deployments that don't need the real
// forward-secure key-evolving scheme systemd-journald implements. A
// production deployment supplies its own Oracle.
package seal
