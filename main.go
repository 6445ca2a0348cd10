package main

import "zillow-wholesale/cmd"

func main() {
	cmd.Execute()
}
