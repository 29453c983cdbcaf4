package main

import "voltrack/cmd"

func main() {
	cmd.Execute()
}
