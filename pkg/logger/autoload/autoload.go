// Package autoload initializes the process logger from the LOG-prefixed
// environment on blank import.
package autoload

import (
	configx "github.com/tourwise/leasing-concierge/pkg/config"
	logx "github.com/tourwise/leasing-concierge/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
