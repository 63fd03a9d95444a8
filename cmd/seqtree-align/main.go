package main

import (
	"seqtree/internal/alignapp"
	"seqtree/internal/appshell"
)

func main() {
	appshell.Main(alignapp.RunContext)
}
