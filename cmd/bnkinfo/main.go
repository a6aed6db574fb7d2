// This tool prints the chunks, object counts and playback summary of sound
// banks read from files, a bank directory or an HTTP bank server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/cwbudde/bnk"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"golang.org/x/time/rate"
)

const missingArgsMessage = "You must pass at least one bank path, or content ids with -dir or -url"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingArgs) {
		fmt.Println(missingArgsMessage)
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}

	logrus.Fatal(err)
}

var errMissingArgs = errors.New("missing bank arguments")

type options struct {
	verbose bool
	strict  bool
	dir     string
	url     string
	timeout time.Duration
	rate    float64
}

func run(args []string, out io.Writer) error {
	var opts options

	fs := flag.NewFlagSet("bnkinfo", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.BoolVar(&opts.verbose, "v", false, "Log skipped chunks and objects")
	fs.BoolVar(&opts.strict, "strict", false, "Fail on switch routing tables that cannot be rebuilt")
	fs.StringVar(&opts.dir, "dir", "", "Directory holding <ID>.bnk files; arguments are content ids")
	fs.StringVar(&opts.url, "url", "", "Base URL serving banks as <url>/<ID>; arguments are content ids")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP timeout used with -url")
	fs.Float64Var(&opts.rate, "rate", 0, "Maximum HTTP requests per second used with -url, 0 for no limit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return errMissingArgs
	}

	log := newLogger(opts.verbose)
	decodeOpts := []bnk.Option{bnk.WithLogger(log), bnk.WithStrictPaths(opts.strict)}

	provider := newProvider(opts)
	ctx := context.Background()

	for _, arg := range fs.Args() {
		data, err := readBank(ctx, provider, arg)
		if err != nil {
			return err
		}

		bank, err := bnk.Parse(data, decodeOpts...)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", arg, err)
		}

		fmt.Fprintf(out, "Bank: %s\n", arg)
		printBank(out, bank)
	}

	return nil
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: !term.IsTerminal(int(os.Stderr.Fd())),
	})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	return log
}

func newProvider(opts options) bnk.ContentProvider {
	switch {
	case opts.url != "":
		return bnk.NewHTTPProvider(opts.url, opts.timeout).WithRateLimit(rate.Limit(opts.rate), 1)
	case opts.dir != "":
		return bnk.DirProvider{Dir: opts.dir}
	default:
		return nil
	}
}

func readBank(ctx context.Context, provider bnk.ContentProvider, arg string) ([]byte, error) {
	if provider == nil {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}

		return data, nil
	}

	id, err := bnk.ParseContentID(arg)
	if err != nil {
		return nil, err
	}

	return provider.Read(ctx, id)
}

func printBank(out io.Writer, bank *bnk.Bank) {
	if h := bank.Header(); h != nil {
		fmt.Fprintf(out, "Version: %#x\n", h.Version)
		fmt.Fprintf(out, "BankID: %d\n", h.BankID)
		fmt.Fprintf(out, "LanguageID: %d\n", h.LanguageID)
		fmt.Fprintf(out, "ProjectID: %d\n", h.ProjectID)
	}

	fmt.Fprintln(out, "Chunks:")

	for _, c := range bank.Chunks {
		fmt.Fprintf(out, "\t%s\toffset %d\tlength %d\n", c.Header.Name, c.Offset, c.Header.Length)
	}

	hirc := bank.Hierarchy()
	fmt.Fprintf(out, "Objects: %d\n", hirc.ObjectCount)

	counts := hirc.CountByType()
	types := make([]bnk.ObjectType, 0, len(counts))

	for t := range counts {
		types = append(types, t)
	}

	slices.Sort(types)

	for _, t := range types {
		fmt.Fprintf(out, "\t%s:\t%d\n", t, counts[t])
	}

	playback, err := hirc.Playback()
	if err != nil {
		fmt.Fprintf(out, "Playback: %v\n", err)
		return
	}

	fmt.Fprintf(out, "Main switch: %d\n", playback.MainSwitch.ID)
	fmt.Fprintf(out, "Play events: %v\n", playback.PlayEventIDs)
	fmt.Fprintf(out, "Stop events: %v\n", playback.StopEventIDs)

	selections, err := hirc.SwitchSelections(playback.MainSwitch)
	if err != nil {
		fmt.Fprintf(out, "Switch selections: %v\n", err)
		return
	}

	for i, s := range selections {
		fmt.Fprintf(out, "\tselection [%d]:\t%+v\n", i, s)
	}
}
