package main

import "github.com/rubixvi/templates/internal/cmd"

func main() {
	cmd.Execute()
}
