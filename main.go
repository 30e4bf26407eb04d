package main

import (
	"os"

	"github.com/wegman-software/osmfilter-go/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
