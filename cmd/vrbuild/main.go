package main

import (
	"github.com/vrsoftware/vrbuild/internal/command"
)

func main() {
	command.Execute()
}
