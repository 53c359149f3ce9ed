package main

import (
	"errors"
	"fmt"
)

type cmdMove struct {
	RobotTarget

	Location string  `long:"location" description:"Drive to this named location"`
	PoseX    float64 `long:"x" description:"Absolute pose X, with --y and --yaw"`
	PoseY    float64 `long:"y" description:"Absolute pose Y, with --x and --yaw"`
	PoseYaw  float64 `long:"yaw" description:"Absolute pose yaw (radians), with --x and --y"`
	Forward  float64 `long:"forward" description:"Drive forward by this many meters"`
	Rotate   float64 `long:"rotate" description:"Rotate in place by this many radians"`
	Home     bool    `long:"home" description:"Return to the charger dock"`
}

func (cmd cmdMove) Execute(_ []string) error {
	f := cmd.facade()
	ctx, cancel := cmd.context()
	defer cancel()

	switch {
	case cmd.Location != "":
		return printExecResult("move to "+cmd.Location, f.MoveToLocation(ctx, cmd.Target, cmd.Location))
	case cmd.Forward != 0:
		return printExecResult(fmt.Sprintf("move forward %.3fm", cmd.Forward), f.MoveForward(ctx, cmd.Target, cmd.Forward))
	case cmd.Rotate != 0:
		return printExecResult(fmt.Sprintf("rotate %.3frad", cmd.Rotate), f.Rotate(ctx, cmd.Target, cmd.Rotate))
	case cmd.Home:
		return printExecResult("return home", f.ReturnHome(ctx, cmd.Target))
	case cmd.PoseX != 0 || cmd.PoseY != 0 || cmd.PoseYaw != 0:
		return printExecResult("move to pose", f.MoveToPose(ctx, cmd.Target, cmd.PoseX, cmd.PoseY, cmd.PoseYaw))
	default:
		return errors.New("move requires one of --location, --x/--y/--yaw, --forward, --rotate, or --home")
	}
}
