package main

import "github.com/tupyy/formula/cmd"

func main() {
	cmd.Execute()
}
