package main

import "github.com/helviojunior/pathaudit/cmd"

func main() {
	cmd.Execute()
}
