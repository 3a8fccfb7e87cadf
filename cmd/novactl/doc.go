// Command novactl is the command line client for the NovaShell device
// service.
//
// One-shot commands print the server's JSON answer; watch opens a live
// terminal view fed by the WebSocket stream.
//
//	novactl toggle wifi off
//	novactl notify -kind warning "Storage" "Almost full"
//	novactl unlock 1234 && novactl launch settings
//	novactl watch
package main
