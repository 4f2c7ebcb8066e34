// Package tokenstore provides token store implementations for the simba
// client: a process-local in-memory store, a YAML file store for workstation
// use, a bbolt-backed store for long-lived daemons, and a NATS key-value
// store shared between processes.
//
// All stores satisfy simba.TokenStore and are safe for concurrent use. A
// lookup for an identifier without a stored token returns an empty string and
// no error.
package tokenstore
