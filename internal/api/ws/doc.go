// Package ws streams live statistics to connected devices over WebSocket.
//
// On connect a client receives {"type":"stats","stats":{...}}; afterwards a
// fresh snapshot is pushed after every action request. Clients may send
// {"type":"ping"} and receive {"type":"pong"}. A subscriber whose send buffer
// is full is disconnected instead of slowing down request handlers.
package ws
