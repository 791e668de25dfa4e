package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"TotoSentinel/internal/config"
)

const usage = `Usage: toto <command> [flags]

Commands:
  analyze   suggest numbers for one draw and grade them
  backtest  replay the strategy over the draw history
  sweep     backtest every lookback/decay-floor combination
  replot    re-render heatmaps from a saved sweep CSV
  odds      random-ticket probabilities and expected value
  trend     yearly win rates for selected parameters
  history   list recorded sweep runs
  watch     re-run the sweep on a schedule
`

// missingFileError marks an input file that does not exist.
type missingFileError struct {
	path string
}

func (e *missingFileError) Error() string { return e.path + " file not found" }

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, in io.Reader, out io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(out, usage)
		return 2
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(out, "An error occurred: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "An error occurred: config validation: %v\n", err)
		return 1
	}
	setupLogging(cfg.Log.Level)

	a := &app{cfg: cfg, in: in, out: out}
	cmds := map[string]func([]string) error{
		"analyze":  a.analyze,
		"backtest": a.backtest,
		"sweep":    a.sweep,
		"replot":   a.replot,
		"odds":     a.odds,
		"trend":    a.trend,
		"history":  a.history,
		"watch":    a.watch,
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		fmt.Fprint(out, usage)
		return 0
	}
	cmd, ok := cmds[name]
	if !ok {
		fmt.Fprintf(out, "Unknown command: %s\n\n%s", name, usage)
		return 2
	}

	err = cmd(args[1:])
	var missing *missingFileError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.As(err, &missing):
		fmt.Fprintf(out, "Error: %s\n", missing)
	default:
		fmt.Fprintf(out, "An error occurred: %v\n", err)
	}
	return 1
}

func setupLogging(level string) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
