// Package main is the entry point for the giroscopio remote control agent.
//
// The agent listens on the local network and lets paired phones and tablets
// open the word processor, the browser and the media player on this machine,
// launch arbitrary executables and run shell commands.
//
// Configuration:
//   - Environment variables (PORT, HOST, COMMAND_TIMEOUT, ACTIONS_PATHS_FILE, ...)
//   - CLI flags (override env vars)
//   - Defaults suited to a Windows desktop
//
// Usage:
//
//	# Listen on all interfaces, port 5000
//	./server
//
//	# Custom port and path table, development logging
//	./server -port 8080 -paths paths.yaml -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
