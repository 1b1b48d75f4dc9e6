package main

import "github.com/oshokin/bdupdater/cmd/bdupdater/cmd"

func main() {
	cmd.Execute()
}
