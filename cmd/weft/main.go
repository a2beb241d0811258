// Package main is the entry point for the weft build tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.weft.build/weft/cmd/weft/commands"
	"go.weft.build/weft/internal/app"
	"go.weft.build/weft/internal/core/domain"
	_ "go.weft.build/weft/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrAlreadyReported) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	return 0
}
