package main

import (
	"seqtree/internal/app"
	"seqtree/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
