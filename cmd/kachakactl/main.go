package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
)

func main() {
	var parser = flags.NewParser(nil, flags.HelpFlag|flags.PassDoubleDash)

	addCmd(parser, "ping", "Ping a robot and report health", `
Pings the robot at --target, reporting its serial number and pose, or the
failure reason if it cannot be reached.
`, &cmdPing{})

	addCmd(parser, "status", "Print the robot's current state", `
Pings the robot and prints its serial number, pose, battery percent,
moving-shelf id, current command state, and any active errors.
`, &cmdStatus{})

	addCmd(parser, "move", "Drive the robot", `
Drives the robot to a named location, an absolute pose, forward by a
distance, or rotates it in place, depending on which flags are given.
`, &cmdMove{})

	addCmd(parser, "shelf", "Carry, dock, or undock a shelf", `
Moves a shelf to a destination location, returns a carried shelf home,
or docks/undocks a shelf in place.
`, &cmdShelf{})

	addCmd(parser, "speak", "Play text as speech on the robot", `
Sends text to the robot's speaker and waits for playback to complete.
`, &cmdSpeak{})

	addCmd(parser, "camera", "Capture one frame from a robot camera", `
Captures a single frame from the front or back camera, running object
detection over it, and prints a summary of what was captured.
`, &cmdCamera{})

	addCmd(parser, "stop", "Issue an emergency stop", `
Cancels any running command and immediately halts robot motion.
`, &cmdStop{})

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		color.Red("%s", err)
		os.Exit(1)
	}
}

func addCmd(to interface {
	AddCommand(string, string, string, interface{}) (*flags.Command, error)
}, name, short, long string, iface interface{}) *flags.Command {
	cmd, err := to.AddCommand(name, short, long, iface)
	if err != nil {
		color.Red("failed to add command %s: %s", name, err)
		os.Exit(1)
	}
	return cmd
}
