package main

import "eventbook-backend/cmd"

func main() {
	cmd.Run()
}
