package main

import "github.com/SherlockGy/linekv/cmd"

func main() {
	cmd.Execute()
}
