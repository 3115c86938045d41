package main

import (
	"github.com/praetorian-inc/aperture/cmd"
)

func main() {
	cmd.Execute()
}
