package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/ddms/internal/cli"
	"github.com/vvka-141/ddms/pkg/ddms"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(ddms.ExitPanic)
		}
	}()

	if os.Getenv("DDMS_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(ddms.ExitCodeForError(err))
	}
}
