package main

import "blockfall/cmd"

func main() {
	cmd.Execute()
}
