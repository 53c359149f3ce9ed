package main

import (
	"fmt"

	"github.com/fatih/color"
)

type cmdStatus struct {
	RobotTarget
}

func (cmd cmdStatus) Execute(_ []string) error {
	f := cmd.facade()
	ctx, cancel := cmd.context()
	defer cancel()

	ping := f.PingRobot(ctx, cmd.Target)
	if !ping.OK {
		color.Red("status %s: unreachable: %s", cmd.Target, ping.Error)
		return nil
	}
	fmt.Printf("serial:       %s\n", ping.Serial)
	fmt.Printf("pose:         (%.3f, %.3f, %.3f)\n", ping.Pose.X, ping.Pose.Y, ping.Pose.Theta)

	if percent, err := f.GetBattery(ctx, cmd.Target); err == nil {
		fmt.Printf("battery:      %d%%\n", percent)
	}
	if shelfID, err := f.GetMovingShelf(ctx, cmd.Target); err == nil && shelfID != "" {
		fmt.Printf("moving shelf: %s\n", shelfID)
	}
	if state, err := f.GetCommandState(ctx, cmd.Target); err == nil {
		fmt.Printf("command:      %s\n", state)
	}
	if codes, err := f.GetErrors(ctx, cmd.Target); err == nil && len(codes) > 0 {
		color.Yellow("active errors: %v", codes)
	}
	return nil
}
