package main

import (
	"github.com/jprince8/py-train-graph/cmd"

	_ "time/tzdata"
)

func main() {
	cmd.Execute()
}
