package main

import (
	"seqtree/internal/appshell"
	"seqtree/internal/serverapp"
)

func main() {
	appshell.Main(serverapp.RunContext)
}
