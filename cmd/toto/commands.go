package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"TotoSentinel/internal/backtest"
	"TotoSentinel/internal/config"
	"TotoSentinel/internal/model"
	"TotoSentinel/internal/odds"
	"TotoSentinel/internal/plot"
	"TotoSentinel/internal/prize"
	"TotoSentinel/internal/prompt"
	"TotoSentinel/internal/recorder"
	"TotoSentinel/internal/report"
	"TotoSentinel/internal/scheduler"
	"TotoSentinel/internal/scoring"
	"TotoSentinel/internal/store"
	"TotoSentinel/internal/sweep"
)

// Interactive lookback answers are limited to this range.
const (
	minLookback = 1
	maxLookback = 100
)

// checkStrategy validates flag-given scoring parameters. A zero lookback means
// the user is prompted later.
func checkStrategy(lookback int, floor float64) error {
	if lookback != 0 && (lookback < minLookback || lookback > maxLookback) {
		return fmt.Errorf("-lookback %d must be between %d and %d", lookback, minLookback, maxLookback)
	}
	if err := scoring.CheckFloor(floor); err != nil {
		return fmt.Errorf("-floor: %w", err)
	}
	return nil
}

type app struct {
	cfg *config.Config
	in  io.Reader
	out io.Writer
}

func (a *app) flags(name string) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(a.out)
	return set
}

func (a *app) loadDraws() (*store.Store, error) {
	st, err := store.Load(a.cfg.Data.DrawsCSV)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &missingFileError{path: a.cfg.Data.DrawsCSV}
	}
	return st, err
}

func (a *app) loadSweep(path string) ([]model.SweepRecord, error) {
	recs, err := sweep.LoadCSV(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &missingFileError{path: path}
	}
	return recs, err
}

func (a *app) analyze(args []string) error {
	f := a.flags("analyze")
	drawID := f.Int("draw", 0, "draw number to analyze (prompted when 0)")
	lookback := f.Int("lookback", 0, "number of previous draws to weigh (prompted when 0)")
	floor := f.Float64("floor", a.cfg.Scoring.DecayFloor, "weight of the oldest draw in the window")
	if err := f.Parse(args); err != nil {
		return err
	}
	if err := checkStrategy(*lookback, *floor); err != nil {
		return err
	}

	st, err := a.loadDraws()
	if err != nil {
		return err
	}
	p := prompt.New(a.in, a.out)

	id := *drawID
	if id == 0 {
		if id, err = p.DrawID(st); err != nil {
			return fmt.Errorf("read draw number: %w", err)
		}
	}
	draw, err := st.Find(id)
	if err != nil {
		return err
	}

	lb := *lookback
	if lb == 0 {
		if lb, err = p.Lookback(minLookback, maxLookback); err != nil {
			return fmt.Errorf("read lookback: %w", err)
		}
	}
	if older, _ := st.OlderCount(id); older < lb {
		log.WithFields(log.Fields{"draw": id, "lookback": lb, "available": older}).
			Warn("fewer previous draws than requested, using all available")
	}

	picks, table, err := scoring.Suggest(st, id, lb, *floor, a.cfg.Scoring.Picks)
	if err != nil {
		return err
	}
	tier, won := prize.Grade(picks, draw.Winning, draw.Additional)

	fmt.Fprint(a.out, report.FormatAnalysis(&report.Analysis{
		Draw:       draw,
		Lookback:   lb,
		DecayFloor: *floor,
		Picks:      picks,
		Table:      table,
		Tier:       tier,
		Prize:      won,
	}))
	return nil
}

func (a *app) backtest(args []string) error {
	f := a.flags("backtest")
	lookback := f.Int("lookback", 0, "number of previous draws to weigh (prompted when 0)")
	floor := f.Float64("floor", a.cfg.Scoring.DecayFloor, "weight of the oldest draw in the window")
	start := f.Int("start", 0, "newest draw number to include (0 = latest)")
	end := f.Int("end", 0, "oldest draw number to include (0 = earliest eligible)")
	if err := f.Parse(args); err != nil {
		return err
	}
	if err := checkStrategy(*lookback, *floor); err != nil {
		return err
	}

	st, err := a.loadDraws()
	if err != nil {
		return err
	}
	lb := *lookback
	if lb == 0 {
		if lb, err = prompt.New(a.in, a.out).Lookback(minLookback, maxLookback); err != nil {
			return fmt.Errorf("read lookback: %w", err)
		}
	}

	res, err := backtest.Run(st, backtest.Options{
		Lookback:   lb,
		DecayFloor: *floor,
		StartDraw:  *start,
		EndDraw:    *end,
		Picks:      a.cfg.Scoring.Picks,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, report.FormatBacktest(res))

	rec := recorder.Open(a.cfg.Database.SQLitePath)
	defer rec.Close()
	if _, err := rec.RecordBacktest(&recorder.BacktestRun{Result: res, Source: a.cfg.Data.DrawsCSV}); err != nil {
		log.WithError(err).Error("record backtest")
	}
	return nil
}

func (a *app) sweep(args []string) error {
	f := a.flags("sweep")
	workers := f.Int("workers", a.cfg.Sweep.Workers, "parallel backtests (0 = one per CPU)")
	if err := f.Parse(args); err != nil {
		return err
	}

	st, err := a.loadDraws()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	grid := a.cfg.SweepGrid()
	fmt.Fprintf(a.out, "Testing %d parameter combinations...\n", grid.Size())
	records, err := sweep.Run(ctx, st, grid, *workers)
	if err != nil {
		return err
	}

	path := a.cfg.SweepCSVPath()
	if err := sweep.SaveCSV(path, records); err != nil {
		return err
	}
	if _, err := plot.SaveHeatmaps(a.cfg.Output.Dir, records); err != nil {
		return fmt.Errorf("heatmaps: %w", err)
	}
	fmt.Fprint(a.out, report.FormatSweepBest(records))
	fmt.Fprintf(a.out, "\nResults saved to %s\n", path)

	rec := recorder.Open(a.cfg.Database.SQLitePath)
	defer rec.Close()
	latest, _ := st.Latest()
	if _, err := rec.RecordSweep(&recorder.SweepRun{
		Records:    records,
		LatestDraw: latest.ID,
		Source:     a.cfg.Data.DrawsCSV,
	}); err != nil {
		log.WithError(err).Error("record sweep")
	}
	return nil
}

func (a *app) replot(args []string) error {
	f := a.flags("replot")
	in := f.String("in", a.cfg.SweepCSVPath(), "sweep results CSV")
	if err := f.Parse(args); err != nil {
		return err
	}

	records, err := a.loadSweep(*in)
	if err != nil {
		return err
	}
	paths, err := plot.SaveHeatmaps(a.cfg.Output.Dir, records)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(a.out, "Generated %s\n", p)
	}
	fmt.Fprint(a.out, report.FormatSweepBest(records))
	return nil
}

func (a *app) odds(args []string) error {
	f := a.flags("odds")
	in := f.String("in", a.cfg.SweepCSVPath(), "sweep results CSV to compare against")
	if err := f.Parse(args); err != nil {
		return err
	}

	g := odds.Toto()
	fmt.Fprint(a.out, report.FormatOdds(g))

	records, err := a.loadSweep(*in)
	var missing *missingFileError
	if errors.As(err, &missing) {
		log.WithField("path", *in).Debug("no sweep results to compare")
	} else if err != nil {
		return err
	}
	fmt.Fprint(a.out, report.FormatComparison(odds.Compare(g, records)))
	return nil
}

func (a *app) trend(args []string) error {
	f := a.flags("trend")
	lookbacks := f.String("lookbacks", joinInts(a.cfg.Trend.Lookbacks), "comma separated lookbacks")
	floors := f.String("floors", joinFloats(a.cfg.Trend.Floors), "comma separated decay floors")
	if err := f.Parse(args); err != nil {
		return err
	}
	lbs, err := parseInts(*lookbacks)
	if err != nil {
		return fmt.Errorf("-lookbacks: %w", err)
	}
	fls, err := parseFloats(*floors)
	if err != nil {
		return fmt.Errorf("-floors: %w", err)
	}

	st, err := a.loadDraws()
	if err != nil {
		return err
	}
	series, err := backtest.Trend(st, lbs, fls)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, report.FormatTrend(series))

	path, err := plot.SaveTrends(a.cfg.Output.Dir, series)
	if errors.Is(err, plot.ErrEmpty) {
		fmt.Fprintln(a.out, "\nNo eligible draws, chart not written.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nChart saved to %s\n", path)
	return nil
}

func (a *app) history(args []string) error {
	f := a.flags("history")
	limit := f.Int("n", 10, "number of runs to list")
	if err := f.Parse(args); err != nil {
		return err
	}
	if a.cfg.Database.SQLitePath == "" {
		fmt.Fprintln(a.out, "Run history is disabled (database.sqlite_path is empty).")
		return nil
	}

	rec, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath)
	if err != nil {
		return err
	}
	defer rec.Close()
	runs, err := rec.RecentSweeps(*limit)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, report.FormatHistory(runs))
	return nil
}

func (a *app) watch(args []string) error {
	f := a.flags("watch")
	now := f.Bool("now", os.Getenv("RUN_ON_START") == "true", "run the sweep immediately")
	if err := f.Parse(args); err != nil {
		return err
	}

	rec := recorder.Open(a.cfg.Database.SQLitePath)
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, a.cfg, rec, a.out)
	if err := sched.Register(a.cfg.Schedule.SweepCron); err != nil {
		return err
	}
	sched.Start()

	if *now {
		log.Info("running sweep now")
		go func() {
			if _, err := sched.RunNow(); err != nil {
				log.WithError(err).Error("initial sweep failed")
			}
		}()
	}

	log.WithField("cron", a.cfg.Schedule.SweepCron).Info("watching for new draws. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	sched.Stop()
	return nil
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
