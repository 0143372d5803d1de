package main

import "github.com/maximbilan/llmchat/cmd"

func main() {
	cmd.Execute()
}
