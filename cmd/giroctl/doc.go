// Command giroctl drives a giroscopio agent from a terminal.
//
// Usage:
//
//	giroctl ping
//	giroctl -a http://192.168.1.20:5000 web https://example.com
//	giroctl execute media
//	giroctl command dir C:\
//	giroctl watch
package main
