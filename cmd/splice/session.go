package main

import (
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/splice/internal/config"
	"github.com/jorge-barreto/splice/internal/engine"
	"github.com/jorge-barreto/splice/internal/journal"
	"github.com/jorge-barreto/splice/internal/logging"
	"github.com/jorge-barreto/splice/internal/metrics"
	"github.com/jorge-barreto/splice/internal/runner"
	"github.com/jorge-barreto/splice/internal/ux"
)

// session holds what one command invocation needs: the resolved config and
// an engine wired to the logger, journal and metrics it describes.
type session struct {
	cfg     *config.Config
	log     *logrus.Logger
	eng     *engine.Engine
	journal *journal.Journal
	prom    *metrics.PrometheusRecorder
	json    bool
	// out receives human-readable output; it discards in JSON mode so
	// stdout carries only JSON.
	out *ux.Printer
}

func openSession(cmd *cli.Command) (*session, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log, json: cmd.Bool("json")}
	s.out = printerFor(s.json)

	opts := []engine.Option{engine.WithLogger(log)}
	if cfg.MetricsPath() != "" {
		s.prom = metrics.NewPrometheusRecorder()
		opts = append(opts, engine.WithRecorder(s.prom))
	}
	if p := cfg.JournalPath(); p != "" {
		j, err := journal.Open(p)
		if err != nil {
			log.WithError(err).WithField("path", p).Warn("journal unavailable; history and undo disabled")
		} else {
			s.journal = j
			opts = append(opts, engine.WithJournal(j))
		}
	}
	s.eng = engine.New(cfg, opts...)
	return s, nil
}

// printerFor keeps stdout clean for JSON output.
func printerFor(jsonMode bool) *ux.Printer {
	if jsonMode {
		return ux.Discard()
	}
	return ux.Stdout()
}

// runner returns a Runner applying through the session's engine.
func (s *session) runner(plan *runner.Plan, showDiff bool) *runner.Runner {
	return &runner.Runner{Plan: plan, Applier: s.eng, ShowDiff: showDiff, Out: s.out}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Discover(wd)
}

func (s *session) close() {
	if s.prom != nil {
		if err := s.prom.WriteTextfile(s.cfg.MetricsPath()); err != nil {
			s.log.WithError(err).Warn("writing metrics textfile")
		}
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.log.WithError(err).Warn("closing journal")
		}
	}
}

// emit prints one result for a single-operation command.
func (s *session) emit(res *engine.Result) {
	if s.json {
		_ = writeJSON(newJSONResult(res))
		return
	}
	s.out.Result(res)
	if g := res.Guard; g != nil && g.Reason == "override" && g.OldSize > 0 {
		s.out.Warning("size guard overridden: %d → %d bytes (ratio %.2f)", g.OldSize, g.NewSize, g.Ratio)
	}
	if !res.Applied && res.Diff != "" {
		s.out.Diff(res.Diff)
	}
	if res.Applied && !res.Unchanged && s.journal != nil {
		s.out.UndoHint(res.ID)
	}
}

// emitAll prints the JSON results of a multi-operation command. The
// terminal form was already printed as each operation ran.
func (s *session) emitAll(results []*engine.Result) {
	if !s.json {
		return
	}
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		out = append(out, newJSONResult(r))
	}
	_ = writeJSON(out)
}

type jsonHunk struct {
	Hunk          int  `json:"hunk"`
	DeclaredStart int  `json:"declared_start"`
	ResolvedStart int  `json:"resolved_start"`
	Offset        int  `json:"offset"`
	Fuzzy         bool `json:"fuzzy"`
}

type jsonResult struct {
	OK            bool       `json:"ok"`
	ID            string     `json:"id"`
	Kind          string     `json:"kind"`
	File          string     `json:"file"`
	Applied       bool       `json:"applied"`
	Unchanged     bool       `json:"unchanged"`
	BlocksApplied int        `json:"blocks_applied,omitempty"`
	Hunks         []jsonHunk `json:"hunks,omitempty"`
	OldSize       int64      `json:"old_size"`
	NewSize       int64      `json:"new_size"`
	Diff          string     `json:"diff,omitempty"`
	Excerpt       string     `json:"excerpt,omitempty"`
}

func newJSONResult(res *engine.Result) jsonResult {
	out := jsonResult{
		OK:            true,
		ID:            res.ID,
		Kind:          string(res.Kind),
		File:          res.File,
		Applied:       res.Applied,
		Unchanged:     res.Unchanged,
		BlocksApplied: res.BlocksApplied,
		OldSize:       res.OldSize,
		NewSize:       res.NewSize,
		Diff:          res.Diff,
		Excerpt:       res.Excerpt,
	}
	for _, h := range res.Hunks {
		out.Hunks = append(out.Hunks, jsonHunk{
			Hunk:          h.Hunk,
			DeclaredStart: h.DeclaredStart,
			ResolvedStart: h.ResolvedStart,
			Offset:        h.Offset,
			Fuzzy:         h.Fuzzy,
		})
	}
	return out
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
