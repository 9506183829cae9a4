package main

import (
	"context"
	"os"

	"github.com/189/koa2-generator/internal/commands"
)

func main() {
	os.Exit(commands.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
