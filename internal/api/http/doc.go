// Package http provides HTTP handlers and routing for the NovaShell REST API.
//
// Handlers read the device store from the request context and the shell,
// catalog and monitor from the Handlers value.
//
// Endpoints:
//   - Health: / and /health
//   - State: /state, /state/toggles/:name
//   - Notifications: /notifications, /notifications/:id
//   - Apps: /apps, /apps/:id/launch, /apps/:id
//   - Shell: /shell/home, /shell/back, /shell/switcher, /shell/lock, /shell/unlock
//   - Monitor: /monitor
//
// Status codes:
//   - 400: malformed body or invalid identifier
//   - 401: wrong PIN
//   - 404: unknown toggle, app, notification
//   - 423: shell is locked
//
// Example Usage:
//
//	handlers := http.NewHandlers(navigator, catalog, monitor, metrics)
//	router.Use(middleware.Store(store))
//	handlers.Register(router)
package http
