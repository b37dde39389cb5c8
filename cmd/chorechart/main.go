package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sandeepkv93/chorechart/internal/views"
)

const Version = "0.1.0"

func main() {
	root := newRootCmd()
	root.Version = Version
	root.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, views.Bad.Render(views.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
