package main

import "discovery-sync/cmd"

func main() {
	cmd.Execute()
}
