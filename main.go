package main

import "startupconnect-backend/cmd"

func main() {
	cmd.Run()
}
