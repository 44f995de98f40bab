package main

import "github.com/gdg-londrina/gdg-meetup/internal/cli"

func main() {
	cli.Execute()
}
