package main

import "github.com/dgallion1/mdtree/cmd/mdtree/cmd"

func main() {
	cmd.Execute()
}
