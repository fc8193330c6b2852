package main

import "upload-agent/cmd"

func main() {
	cmd.Execute()
}
