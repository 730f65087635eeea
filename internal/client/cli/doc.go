// Package cli provides the interactive dream journal command-line client.
//
// It wires configuration, the local cache, the replay queue, the API gateway,
// and the dream store into an interactive REPL that keeps working offline.
// Typical flow: restore the session from a token file if configured, start a
// background connectivity watcher, and execute user commands against the
// local-first store.
//
// Key features:
//   - Login with a pasted ID token, or continue as a guest
//   - Add / edit / favorite / delete journal entries
//   - List, recent and favorites views with pagination
//   - Manual sync that replays queued writes
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
