package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

type cmdCamera struct {
	RobotTarget

	Back   bool   `long:"back" description:"Capture from the back camera instead of the front"`
	Output string `long:"output" description:"Write the captured JPEG to this path"`
}

func (cmd cmdCamera) Execute(_ []string) error {
	f := cmd.facade()
	ctx, cancel := cmd.context()
	defer cancel()

	var ok bool
	var jpeg []byte
	var objectCount int
	var errMsg string

	if cmd.Back {
		c := f.CaptureBackCamera(ctx, cmd.Target)
		ok, jpeg, objectCount, errMsg = c.OK, c.Image.Data, len(c.Objects), c.Error
	} else {
		c := f.CaptureFrontCamera(ctx, cmd.Target)
		ok, jpeg, objectCount, errMsg = c.OK, c.Image.Data, len(c.Objects), c.Error
	}

	if !ok {
		color.Red("camera %s: failed: %s", cmd.Target, errMsg)
		return nil
	}
	color.Green("camera %s: ok, %d bytes, %d objects detected", cmd.Target, len(jpeg), objectCount)

	if cmd.Output != "" {
		if err := os.WriteFile(cmd.Output, jpeg, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", cmd.Output, err)
		}
	}
	return nil
}
