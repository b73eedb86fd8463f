package main

import "github.com/kozaktomas/wallcal/cmd"

func main() {
	cmd.Execute()
}
