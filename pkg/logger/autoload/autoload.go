// Package autoload configures the global zerolog logger from the LOGGER_*
// environment on import. Blank-import it from main.
package autoload

import (
	configx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/pkg/config"
	logx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOGGER"))
}
