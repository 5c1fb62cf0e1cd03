package main

import "github.com/theirongolddev/sdash/cmd"

func main() {
	cmd.Execute()
}
