package main

import (
	"embed"

	"github.com/AzielCF/az-reply/cmd"
)

//go:embed views
var embedViews embed.FS

func main() {
	cmd.Execute(embedViews)
}
