package main

import (
	"github.com/guettli/evjoy/cmd"
)

func main() {
	cmd.Execute()
}
