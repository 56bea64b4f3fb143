// Package application provides application initialization and dependency wiring.
// It builds the session store, handlers, routers and HTTP server from the
// loaded configuration and runs them, together with the idle session sweeper,
// under one cancellable lifecycle.
package application
