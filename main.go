package main

import "matchly-backend/cmd"

func main() {
	cmd.Run()
}
