package main

import "github.com/jcdickinson/oakdoc/cmd"

func main() {
	cmd.Execute()
}
