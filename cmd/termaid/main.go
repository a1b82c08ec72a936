// Command termaid renders Mermaid-style diagram text as Unicode box-drawing
// art on stdout. It reads a file argument or stdin.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/termaid/termaid"
	"github.com/termaid/termaid/lib/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	width := pflag.IntP("width", "w", 0, "maximum output width in columns (0 means unconstrained)")
	help := pflag.BoolP("help", "h", false, "show usage")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, "usage: termaid [flags] [file]\n\nRenders Mermaid-style diagram text as Unicode box-drawing art.\nReads from stdin when no file is given.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		return 0
	}

	input, err := readInput(pflag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "err:", err)
		return 1
	}

	ctx := log.Stderr(context.Background())
	opts := &termaid.RenderOpts{}
	if *width > 0 {
		opts.MaxWidth = width
	}
	out, err := termaid.RenderWithOptions(ctx, input, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "err:", err)
		return 1
	}
	fmt.Println(out)
	return 0
}

func readInput(args []string) (string, error) {
	switch len(args) {
	case 0:
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	case 1:
		b, err := os.ReadFile(args[0])
		return string(b), err
	}
	return "", fmt.Errorf("expected at most one file argument")
}
