// Package http exposes the remote control API over gin.
//
// Routes (mounted under the configured prefix, /api by default):
//
//	GET  /health            liveness plus stats, counts as a request
//	GET  /stats             stats only, never counted
//	POST /actions/office    open the word processor
//	POST /actions/web       open the browser, body {"url": "..."} optional
//	POST /actions/media     open the media player
//	POST /actions/custom    launch {"app_path": "..."}
//	POST /actions/command   run {"command": "..."} through the shell
//	POST /actions/execute   dispatch {"action": "office"|"web"|"media"}
//	GET  /stream            WebSocket stats stream
//
// Action responses are the outcome merged with the stats snapshot taken after
// it. Failures to launch answer 500 with success=false.
package http
