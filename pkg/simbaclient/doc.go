// Package simbaclient provides convenience constructors over the core client
// in pkg/simba. URLs may omit their scheme (https is assumed) and the base
// URL sheds its trailing slash, an in-memory token store is installed unless
// an option supplies another one, and Config.Debug wires a structured zap
// logger. Use pkg/simba directly for full control over the client's
// collaborators.
package simbaclient
