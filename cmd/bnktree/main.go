// This tool prints the switch routing trees of the music switch containers
// in a sound bank.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cwbudde/bnk"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

const missingPathMessage = "You must pass the path of the bank to decode"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}

	logrus.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("bnktree", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	verbose := fs.Bool("v", false, "Log skipped chunks and objects")
	strict := fs.Bool("strict", false, "Fail on switch routing tables that cannot be rebuilt")
	only := fs.Uint("id", 0, "Only print the container with this id")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return errMissingPath
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: !term.IsTerminal(int(os.Stderr.Fd()))})

	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	bank, err := bnk.Parse(data, bnk.WithLogger(log), bnk.WithStrictPaths(*strict))
	if err != nil {
		return err
	}

	containers, err := bnk.Filter(context.Background(), bank.Hierarchy(), func(c *bnk.MusicSwitchContainer) bool {
		return *only == 0 || c.ID == uint32(*only)
	})
	if err != nil {
		return err
	}

	if len(containers) == 0 {
		fmt.Fprintln(out, "No music switch containers")
		return nil
	}

	for _, c := range containers {
		fmt.Fprintf(out, "MusicSwitchContainer %d groups %v\n", c.ID, c.GroupIDs)

		switch {
		case c.PathsErr != nil:
			fmt.Fprintf(out, "\terror: %v\n", c.PathsErr)
		case c.Paths == nil:
			fmt.Fprintln(out, "\tno routing tree")
		default:
			fmt.Fprintf(out, "\tnode from %d\n", c.Paths.From)
			c.Paths.Walk(func(el bnk.AudioPathElement, depth int) bool {
				printElement(out, el, depth+1)
				return true
			})
		}
	}

	return nil
}

func printElement(out io.Writer, el bnk.AudioPathElement, depth int) {
	indent := strings.Repeat("\t", depth)

	switch e := el.(type) {
	case *bnk.AudioPathNode:
		fmt.Fprintf(out, "%snode from %d weight %d probability %d\n", indent, e.From, e.Weight, e.Probability)
	case *bnk.MusicEndpoint:
		fmt.Fprintf(out, "%sendpoint from %d -> %d weight %d probability %d\n",
			indent, e.From, e.AudioID, e.Weight, e.Probability)
	}
}
