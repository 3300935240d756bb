package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode maps server.mode onto gin's mode.  Unknown modes keep release.
func SetGinMode(mode string) {
	switch mode {
	case gin.DebugMode:
		gin.SetMode(gin.DebugMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}
