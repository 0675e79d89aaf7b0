package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat/internal/common"
	"aichat/internal/httpapi/handlers"
	"aichat/internal/httpapi/middleware"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.GET("/ping", h.Ping)
	r.GET("/countries", h.ListCountries)

	// auth
	r.POST("/auth/otp", h.SendOTP)
	r.POST("/auth/verify", h.VerifyOTP)
	r.POST("/auth/back", h.BackToPhone)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)

	// rooms and messages
	r.GET("/rooms", h.ListRooms)
	r.POST("/rooms", h.CreateRoom)
	r.DELETE("/rooms/:id", h.DeleteRoom)
	r.PUT("/rooms/current", h.SetCurrentRoom)
	r.GET("/rooms/:id/messages", h.ListMessages)
	r.POST("/rooms/:id/messages", h.SendMessage)
	r.POST("/rooms/:id/messages/older", h.LoadOlder)

	// theme
	r.GET("/theme", h.GetTheme)
	r.POST("/theme/toggle", h.ToggleTheme)

	return r
}
