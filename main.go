package main

import (
	"github.com/notargets/dgacoustic/cmd"
)

func main() {
	cmd.Execute()
}
