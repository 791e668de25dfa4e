package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"TotoSentinel/internal/config"
	"TotoSentinel/internal/plot"
	"TotoSentinel/internal/recorder"
	"TotoSentinel/internal/report"
	"TotoSentinel/internal/store"
	"TotoSentinel/internal/sweep"
)

// ErrNoDraws is returned when the draw file has no rows to sweep.
var ErrNoDraws = errors.New("no draws loaded")

// lastDrawer is implemented by recorders that remember which draw the last sweep covered.
type lastDrawer interface {
	LastSweepDraw() (int, error)
}

// Scheduler re-runs the parameter sweep on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Cfg      *config.Config
	Recorder recorder.Recorder
	Out      io.Writer
	Ctx      context.Context

	mu       sync.Mutex
	lastDraw int
}

// NewScheduler creates a new Scheduler. Sweep summaries are written to out.
func NewScheduler(ctx context.Context, cfg *config.Config, rec recorder.Recorder, out io.Writer) *Scheduler {
	s := &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Cfg:      cfg,
		Recorder: rec,
		Out:      out,
		Ctx:      ctx,
	}
	if ld, ok := rec.(lastDrawer); ok {
		if id, err := ld.LastSweepDraw(); err != nil {
			log.WithError(err).Warn("could not read last swept draw")
		} else {
			s.lastDraw = id
		}
	}
	return s
}

// Register adds the sweep job on spec (six fields, seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.sweepTask); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunNow executes the sweep job immediately. It reports whether a sweep ran;
// false means the draw file has no draw newer than the last sweep.
func (s *Scheduler) RunNow() (bool, error) {
	return s.runSweep()
}

func (s *Scheduler) sweepTask() {
	if _, err := s.runSweep(); err != nil {
		log.WithError(err).Error("scheduled sweep failed")
	}
}

func (s *Scheduler) runSweep() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.Cfg.Data.DrawsCSV
	st, err := store.Load(src)
	if err != nil {
		return false, err
	}
	latest, ok := st.Latest()
	if !ok {
		return false, ErrNoDraws
	}
	if latest.ID == s.lastDraw {
		log.WithField("draw", latest.ID).Info("no new draw since last sweep, skipping")
		return false, nil
	}

	log.WithFields(log.Fields{"draw": latest.ID, "source": src}).Info("running scheduled sweep")
	records, err := sweep.Run(s.Ctx, st, s.Cfg.SweepGrid(), s.Cfg.Sweep.Workers)
	if err != nil {
		return false, fmt.Errorf("sweep: %w", err)
	}

	if err := sweep.SaveCSV(s.Cfg.SweepCSVPath(), records); err != nil {
		return false, err
	}
	if _, err := plot.SaveHeatmaps(s.Cfg.Output.Dir, records); err != nil {
		return false, fmt.Errorf("heatmaps: %w", err)
	}

	id, err := s.Recorder.RecordSweep(&recorder.SweepRun{
		Records:    records,
		LatestDraw: latest.ID,
		Source:     src,
	})
	if err != nil {
		log.WithError(err).Error("record sweep")
	}

	for _, m := range sweep.Metrics {
		if best, ok := sweep.Best(records, m); ok {
			log.WithFields(log.Fields{
				"metric":   string(m),
				"lookback": best.Lookback,
				"floor":    best.DecayFloor,
				"value":    m.Value(best),
				"run":      id,
			}).Info("best cell")
		}
	}
	fmt.Fprintf(s.Out, "Sweep after draw #%d\n", latest.ID)
	fmt.Fprint(s.Out, report.FormatSweepBest(records))

	s.lastDraw = latest.ID
	return true, nil
}
