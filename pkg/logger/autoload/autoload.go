// Package autoload initializes the global logger from LOG_* environment
// variables when imported.
package autoload

import (
	configx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/pkg/config"
	logx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
