package main

import "personmerge/cmd"

func main() {
	cmd.Execute()
}
