package main

import (
	"os"

	"github.com/runabol/mountgate/cli"
)

func main() {
	os.Exit(cli.New().Run(os.Args))
}
