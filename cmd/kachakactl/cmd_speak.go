package main

type cmdSpeak struct {
	RobotTarget

	Text   string `long:"text" required:"true" description:"Text to speak"`
	Volume int32  `long:"volume" default:"-1" description:"Speaker volume [0,10] to set first, -1 leaves it unchanged"`
}

func (cmd cmdSpeak) Execute(_ []string) error {
	f := cmd.facade()
	ctx, cancel := cmd.context()
	defer cancel()

	if cmd.Volume >= 0 {
		if r := f.SetVolume(ctx, cmd.Target, cmd.Volume); !r.OK {
			return printExecResult("set volume", r)
		}
	}
	return printExecResult("speak", f.Speak(ctx, cmd.Target, cmd.Text))
}
