// Package tui implements the novactl watch screen with bubbletea.
//
// The model dials the server's WebSocket stream, renders every state frame
// and sends commands for key presses. A dropped stream is redialed after
// ReconnectDelay.
package tui
