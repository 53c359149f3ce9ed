package main

import (
	"context"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/estuary/kachaka-core/internal/connection"
	"github.com/estuary/kachaka-core/internal/controller"
	"github.com/estuary/kachaka-core/internal/facade"
)

// RobotTarget is embedded in every subcommand that talks to a robot.
type RobotTarget struct {
	Target  string    `long:"target" env:"KACHAKA_TARGET" default:"localhost" description:"Robot host or host:port"`
	Timeout string    `long:"timeout" default:"30s" description:"Deadline of the context the subcommand's RPCs run under; blocking commands keep their own fixed 30s limit"`
	Log     LogConfig `group:"Logging" namespace:"log" env-namespace:"LOG"`
}

func (t RobotTarget) facade() *facade.Facade {
	initLog(t.Log)
	return facade.New(connection.DefaultPool())
}

func (t RobotTarget) timeout() time.Duration {
	d, err := time.ParseDuration(t.Timeout)
	if err != nil || d <= 0 {
		return facade.DefaultCommandTimeout
	}
	return d
}

func (t RobotTarget) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), t.timeout())
}

// printExecResult renders a controller.ExecResult and exits non-zero on
// failure, the shared tail of every command-dispatching subcommand.
func printExecResult(action string, r controller.ExecResult) error {
	if r.OK {
		color.Green("%s: ok (%s)", action, r.Elapsed.Round(time.Millisecond))
		return nil
	}
	if r.ErrorCode != 0 {
		color.Red("%s: failed, error_code=%d: %s (%s)", action, r.ErrorCode, r.Error, r.Elapsed.Round(time.Millisecond))
	} else {
		color.Red("%s: failed: %s (%s)", action, r.Error, r.Elapsed.Round(time.Millisecond))
	}
	os.Exit(1)
	return nil
}
