package main

import (
	"os"

	"github.com/pterm/pterm"
)

func main() {
	cmd, a := newRootCmd()
	err := cmd.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
