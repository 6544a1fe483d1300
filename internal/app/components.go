package app

import (
	"go.trai.ch/quick/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// jsonSwitch is implemented by loggers that can switch to JSON output.
type jsonSwitch interface {
	SetJSON(enable bool)
}

// UseJSON switches the logger to JSON output when it supports it.
func (c *Components) UseJSON(enable bool) {
	if l, ok := c.Logger.(jsonSwitch); ok {
		l.SetJSON(enable)
	}
}
