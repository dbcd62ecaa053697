// cmd/deckhand/main.go
//
// This is the entry point for the deckhand CLI.
// When you run `deckhand` from any directory, that directory becomes the
// project: its .deckhand folder holds config, logs, session state and
// exported decks.

package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

var version = "0.1.0"

func main() {
	root := newRootCmd()
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
