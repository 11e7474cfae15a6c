// Package cli provides the interactive doccheck terminal client.
//
// App ties the API client, the session store and the router together behind
// a small REPL. Every command navigates first; the router guard decides
// whether the command may run or where the user is sent instead.
//
// Commands:
//   - login / logout
//   - upload <path>
//   - history, result <id>
//   - download <id> [dir], annotated <id> [dir]
//   - developers, go <path>, status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
