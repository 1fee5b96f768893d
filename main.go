package main

import "github.com/chapool/go-docseal/cmd"

func main() {
	cmd.Execute()
}
