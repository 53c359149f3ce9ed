package main

import (
	"github.com/fatih/color"
)

type cmdPing struct {
	RobotTarget
}

func (cmd cmdPing) Execute(_ []string) error {
	f := cmd.facade()
	ctx, cancel := cmd.context()
	defer cancel()

	result := f.PingRobot(ctx, cmd.Target)
	if !result.OK {
		color.Red("ping %s: failed: %s", cmd.Target, result.Error)
		return nil
	}
	color.Green("ping %s: ok, serial=%s pose=(%.3f, %.3f, %.3f)",
		cmd.Target, result.Serial, result.Pose.X, result.Pose.Y, result.Pose.Theta)
	return nil
}
