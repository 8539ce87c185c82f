package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var skewCheckCh = make(chan string, 1)
var skewCheckStarted bool

// startSkewCheck fetches the server version in the background, so commands
// are never delayed by it. The result is picked up by printSkewNotice once
// the command has finished.
func startSkewCheck(ctx context.Context) {
	if version == "dev" || !isatty.IsTerminal(os.Stderr.Fd()) {
		return
	}
	skewCheckStarted = true
	go func() {
		var response struct {
			Version string `json:"version"`
		}
		if err := client.get(ctx, "/api/version", &response); err != nil || response.Version == "" || response.Version == version {
			skewCheckCh <- ""
			return
		}
		skewCheckCh <- response.Version
	}()
}

// printSkewNotice warns when client and server run different versions. The
// wait is bounded so a slow server never delays the prompt.
func printSkewNotice() {
	if !skewCheckStarted {
		return
	}
	select {
	case server := <-skewCheckCh:
		if server != "" {
			yellow := color.New(color.FgYellow)
			yellow.EnableColor()

			fmt.Fprint(os.Stderr,
				yellow.Sprintf("› client %s and server %s are different versions, behavior may differ.", version, server)+
					"\n",
			)
		}
	case <-time.After(1 * time.Second):
	}
}
