package main

import "github.com/quakeboard/api/internal/cmd"

func main() {
	cmd.Execute()
}
