package main

import (
	"github.com/vorteil/vhdprobe/pkg/cli"
)

func main() {

	defer cli.HandleErrors()

	cli.InitializeCommands()

	err := cli.RootCommand.Execute()
	if err != nil {
		cli.SetError(err, 1)
		return
	}

}
