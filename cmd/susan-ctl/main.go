package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"susan/internal/ipc"
)

func main() {
	socket := cli.String("socket", ipc.DefaultSocketPath, "Control socket of the agent")
	cli.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: susan-ctl [--socket path] say <text...>")
		cli.PrintDefaults()
	}
	cli.Parse()

	args := cli.Args()
	if len(args) < 2 || args[0] != ipc.CmdSay {
		cli.Usage()
		os.Exit(2)
	}

	err := ipc.Send(*socket, ipc.ControlMessage{
		Cmd:  ipc.CmdSay,
		Text: strings.Join(args[1:], " "),
	})
	if err != nil {
		fmt.Println("susan not running:", err)
		os.Exit(1)
	}
}
