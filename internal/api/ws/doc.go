// Package ws streams the tablet screen over WebSocket.
//
// A connected viewer receives every new frame as a binary PNG message and
// sends input back as JSON, so a browser can act as the tablet's display.
//
// Message Types (Client → Server):
//   - mouse: {"type":"mouse","x":10,"y":20}
//   - key: {"type":"key","code":67}
//   - open: {"type":"open","app":"sketchpad"}
//   - close: Close the active application
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: Sent on connect with session id and canvas size
//   - ok: Command accepted
//   - pong: Reply to ping
//   - error: Command failed
//   - binary: PNG of the latest frame
//
// Example Usage:
//
//	handler := ws.NewHandler(device, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
