package game

//go:generate go run golang.org/x/tools/cmd/stringer -type=Command -trimprefix=Command

// Command is a discrete player input.
type Command int

const (
	CommandMoveLeft Command = iota
	CommandMoveRight
	CommandSoftDrop
	CommandRotate
	CommandHardDrop
	CommandTogglePause
)
