package main

import "imconv/cmd"

func main() {
	cmd.Execute()
}
