package main

import "github.com/theirongolddev/purse/cmd"

func main() {
	cmd.Execute()
}
