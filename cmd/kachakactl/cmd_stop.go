package main

import "github.com/fatih/color"

type cmdStop struct {
	RobotTarget
}

func (cmd cmdStop) Execute(_ []string) error {
	f := cmd.facade()
	ctx, cancel := cmd.context()
	defer cancel()

	if err := f.EmergencyStop(ctx, cmd.Target); err != nil {
		color.Red("stop %s: failed: %s", cmd.Target, err)
		return nil
	}
	color.Green("stop %s: ok", cmd.Target)
	return nil
}
