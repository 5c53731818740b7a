package main

import (
	"context"
	"fmt"
	"os"
)

var terminate = os.Exit

func run(args []string) int {
	if err := Execute(context.Background(), args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func main() {
	terminate(run(os.Args[1:]))
}
