package http

import "github.com/gin-gonic/gin"

// Register mounts every REST endpoint on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.GET("/state", h.GetState)
	r.PUT("/state/toggles/:name", h.SetToggle)

	r.GET("/notifications", h.ListNotifications)
	r.POST("/notifications", h.CreateNotification)
	r.DELETE("/notifications/:id", h.DismissNotification)

	r.GET("/apps", h.ListApps)
	r.POST("/apps/:id/launch", h.LaunchApp)
	r.DELETE("/apps/:id", h.CloseApp)

	shell := r.Group("/shell")
	{
		shell.POST("/home", h.Home)
		shell.POST("/back", h.Back)
		shell.POST("/switcher", h.ToggleSwitcher)
		shell.POST("/lock", h.Lock)
		shell.POST("/unlock", h.Unlock)
	}

	r.GET("/monitor", h.Monitor)
}
