// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the local session store and the gRPC client into a
// REPL. A successful login is persisted, so a later run can call whoami,
// verify and logout without logging in again. A background watcher pings the
// server and shows online/offline in the prompt.
package cli
