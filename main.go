package main

import "github.com/helviojunior/abapscan/cmd"

func main() {
	cmd.Execute()
}
