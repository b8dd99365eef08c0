package main

import (
	"github.com/ssrl/fastind/pkg/cmd"
)

func main() {
	cmd.Execute()
}
