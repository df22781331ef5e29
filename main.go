package main

import "github.com/groovia/groovia/cmd"

func main() {
	cmd.Execute()
}
