package main

import "errors"

type cmdShelf struct {
	RobotTarget

	Shelf       string `long:"shelf" description:"Shelf name or id"`
	Destination string `long:"to" description:"Destination location name or id, with --shelf"`
	Return      bool   `long:"return" description:"Return the carried shelf home"`
	Dock        bool   `long:"dock" description:"Dock --shelf in place"`
	Undock      bool   `long:"undock" description:"Undock --shelf in place"`
}

func (cmd cmdShelf) Execute(_ []string) error {
	f := cmd.facade()
	ctx, cancel := cmd.context()
	defer cancel()

	switch {
	case cmd.Return:
		return printExecResult("return shelf", f.ReturnShelf(ctx, cmd.Target, cmd.Shelf))
	case cmd.Dock:
		if cmd.Shelf == "" {
			return errors.New("--dock requires --shelf")
		}
		return printExecResult("dock "+cmd.Shelf, f.DockShelf(ctx, cmd.Target, cmd.Shelf))
	case cmd.Undock:
		if cmd.Shelf == "" {
			return errors.New("--undock requires --shelf")
		}
		return printExecResult("undock "+cmd.Shelf, f.UndockShelf(ctx, cmd.Target, cmd.Shelf))
	case cmd.Shelf != "" && cmd.Destination != "":
		return printExecResult("move shelf "+cmd.Shelf+" to "+cmd.Destination, f.MoveShelf(ctx, cmd.Target, cmd.Shelf, cmd.Destination))
	default:
		return errors.New("shelf requires --shelf with --to, or one of --return, --dock, --undock")
	}
}
