// Package ws provides the WebSocket stream of device state.
//
// Each connection subscribes to the device store and receives a state frame
// for every committed version, newest first. Slow readers skip versions; they
// never see a stale snapshot after a newer one.
//
// Message Types (Client → Server):
//   - toggle: {"type":"toggle","toggle":"wifi","enabled":false}
//   - notify: {"type":"notify","title":"..","message":"..","kind":"info"}
//   - dismiss: {"type":"dismiss","id":".."}
//   - launch, close: {"type":"launch","app_id":"settings"}
//   - home, back
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - state: Full device snapshot
//   - result: Command accepted, with shell state or notification
//   - error: Command rejected
//   - pong: Reply to ping
//
// Example Usage:
//
//	handler := ws.NewHandler(navigator, metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
