package main

import (
	"github.com/kdmurray91/libqes/cmd/qes/cmd"
)

func main() {
	cmd.Execute()
}
