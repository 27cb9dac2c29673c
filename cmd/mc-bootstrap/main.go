package main

import "github.com/oshokin/mc-bootstrap/cmd/mc-bootstrap/cmd"

func main() {
	cmd.Execute()
}
