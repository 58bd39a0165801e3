package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/splice/internal/blocks"
	"github.com/jorge-barreto/splice/internal/docs"
	"github.com/jorge-barreto/splice/internal/editerr"
	"github.com/jorge-barreto/splice/internal/engine"
	"github.com/jorge-barreto/splice/internal/extract"
	"github.com/jorge-barreto/splice/internal/lines"
	"github.com/jorge-barreto/splice/internal/runner"
	"github.com/jorge-barreto/splice/internal/scaffold"
	"github.com/jorge-barreto/splice/internal/source"
	"github.com/jorge-barreto/splice/internal/ux"
)

func main() {
	app := &cli.Command{
		Name:        "splice",
		Usage:       "Apply model-proposed edits to files safely",
		Description: "Run 'splice docs' for documentation on edit formats, the write guard, plans, and config.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Path to a config file (default: nearest .splice/config.yaml)"},
			&cli.StringFlag{Name: "log-level", Usage: "Override log.level (trace, debug, info, warn, error)"},
			&cli.BoolFlag{Name: "json", Usage: "Print results and failures as JSON"},
		},
		Commands: []*cli.Command{
			editCmd(),
			patchCmd(),
			linesCmd(),
			writeCmd(),
			runCmd(),
			respondCmd(),
			historyCmd(),
			undoCmd(),
			initCmd(),
			promptCmd(),
			docsCmd(),
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		if app.Bool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(struct {
				OK      bool           `json:"ok"`
				Failure engine.Failure `json:"failure"`
			}{false, engine.Describe(err)})
		} else {
			ux.New(os.Stderr).Error(err)
		}
	}
	os.Exit(editerr.ExitCode(err))
}

var (
	clipboardFlag = &cli.BoolFlag{Name: "clipboard", Aliases: []string{"c"}, Usage: "Read the payload from the clipboard"}
	dryRunFlag    = &cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "Show the diff without writing"}
)

func editCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Apply SEARCH/REPLACE blocks to a file",
		ArgsUsage: "<file> [payload|-]",
		Flags:     []cli.Flag{clipboardFlag, dryRunFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			file, err := fileArg(cmd)
			if err != nil {
				return err
			}
			payload, err := source.New().Read(cmd.Args().Get(1), cmd.Bool("clipboard"))
			if err != nil {
				return err
			}
			return applyOne(cmd, engine.BlockEdit{File: file, Payload: payload, DryRun: cmd.Bool("dry-run")})
		},
	}
}

func patchCmd() *cli.Command {
	return &cli.Command{
		Name:      "patch",
		Usage:     "Apply a unified diff to a file, locating hunks by content",
		ArgsUsage: "<file> [diff|-]",
		Flags:     []cli.Flag{clipboardFlag, dryRunFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			file, err := fileArg(cmd)
			if err != nil {
				return err
			}
			diff, err := source.New().Read(cmd.Args().Get(1), cmd.Bool("clipboard"))
			if err != nil {
				return err
			}
			return applyOne(cmd, engine.PatchApply{File: file, Diff: diff, DryRun: cmd.Bool("dry-run")})
		},
	}
}

func linesCmd() *cli.Command {
	return &cli.Command{
		Name:      "lines",
		Usage:     "Replace, insert, or delete lines by number",
		ArgsUsage: "<file> [text|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(lines.Replace), Usage: "replace, insert, or delete"},
			&cli.IntFlag{Name: "start", Aliases: []string{"s"}, Usage: "First line (1-based)", Required: true},
			&cli.IntFlag{Name: "end", Aliases: []string{"e"}, Usage: "Last line, inclusive (default: start)"},
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "New text (default: read like a payload)"},
			&cli.BoolFlag{Name: "preview", Aliases: []string{"p"}, Usage: "Show the edited region without writing"},
			clipboardFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			file, err := fileArg(cmd)
			if err != nil {
				return err
			}
			mode, err := lines.ParseMode(cmd.String("mode"))
			if err != nil {
				return err
			}
			start := int(cmd.Int("start"))
			end := int(cmd.Int("end"))
			if end == 0 {
				end = start
			}
			text := cmd.String("text")
			if mode != lines.Delete && !cmd.IsSet("text") {
				if text, err = source.New().Read(cmd.Args().Get(1), cmd.Bool("clipboard")); err != nil {
					return err
				}
			}
			return applyOne(cmd, engine.LineEdit{
				File:    file,
				Command: lines.Command{Start: start, End: end, Text: text, Mode: mode},
				Preview: cmd.Bool("preview"),
			})
		},
	}
}

func writeCmd() *cli.Command {
	return &cli.Command{
		Name:      "write",
		Usage:     "Overwrite a file, refusing suspicious truncations",
		ArgsUsage: "<file> [content|-]",
		Flags: []cli.Flag{
			clipboardFlag,
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Write even if the size guard objects"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			file, err := fileArg(cmd)
			if err != nil {
				return err
			}
			content, err := source.New().Read(cmd.Args().Get(1), cmd.Bool("clipboard"))
			if err != nil {
				return err
			}
			return applyOne(cmd, engine.GuardedOverwrite{File: file, Content: content, Override: cmd.Bool("force")})
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Apply a YAML plan of operations in order",
		ArgsUsage: "<plan.yaml>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Print the operation plan without executing"},
			&cli.BoolFlag{Name: "diff", Usage: "Print each operation's diff"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return editerr.Invalid("plan", "plan file argument is required")
			}
			plan, err := runner.LoadPlan(path)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			r := s.runner(plan, cmd.Bool("diff"))
			if cmd.Bool("dry-run") {
				r.DryRunPrint()
				return nil
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			results, err := r.Run(ctx)
			s.emitAll(results)
			return err
		},
	}
}

func respondCmd() *cli.Command {
	return &cli.Command{
		Name:      "respond",
		Usage:     "Apply every edit found in a model's markdown response",
		ArgsUsage: "[response|-]",
		Flags: []cli.Flag{
			clipboardFlag,
			dryRunFlag,
			&cli.StringFlag{Name: "file", Usage: "Target for proposals that name no file"},
			&cli.StringFlag{Name: "dir", Value: ".", Usage: "Directory relative paths resolve against"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			response, err := source.New().Read(cmd.Args().First(), cmd.Bool("clipboard"))
			if err != nil {
				return err
			}
			ops, err := proposalOps(response, cmd.String("file"), cmd.String("dir"), cmd.Bool("dry-run"))
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			r := s.runner(nil, cmd.Bool("dry-run"))
			results, err := r.ApplyAll(ctx, ops)
			s.emitAll(results)
			return err
		},
	}
}

// proposalOps turns the proposals in a response into engine operations.
func proposalOps(response, fallback, dir string, dryRun bool) ([]engine.Operation, error) {
	proposals, err := extract.Proposals([]byte(response))
	if err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		// Unfenced blocks are still a valid response.
		bs, perr := blocks.Parse(response)
		if perr != nil {
			return nil, editerr.Invalid("response", "no SEARCH/REPLACE blocks or diffs found")
		}
		proposals = []extract.Proposal{{Kind: extract.KindBlocks, Blocks: bs}}
	}

	ops := make([]engine.Operation, 0, len(proposals))
	for i, p := range proposals {
		path := p.Path
		if path == "" {
			path = fallback
		}
		if path == "" {
			return nil, editerr.Invalid("response", fmt.Sprintf("proposal %d names no file; pass --file", i+1))
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		switch p.Kind {
		case extract.KindPatch:
			ops = append(ops, engine.PatchApply{File: path, Diff: p.Payload, DryRun: dryRun})
		default:
			ops = append(ops, engine.BlockEdit{File: path, Blocks: p.Blocks, DryRun: dryRun})
		}
	}
	return ops, nil
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List journaled edits, newest first",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum entries to show"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			file := cmd.Args().First()
			if file != "" {
				if file, err = filepath.Abs(file); err != nil {
					return err
				}
			}
			entries, err := s.eng.History(file, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			if s.json {
				return writeJSON(entries)
			}
			s.out.RenderHistory(entries)
			return nil
		},
	}
}

func undoCmd() *cli.Command {
	return &cli.Command{
		Name:      "undo",
		Usage:     "Restore a file to its content before a journaled edit",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return editerr.Invalid("id", "edit id argument is required (see 'splice history')")
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			res, err := s.eng.Undo(id)
			if err != nil {
				return err
			}
			s.emit(res)
			return nil
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .splice/ directory with example config",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir, os.Stdout)
		},
	}
}

func promptCmd() *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "Print edit format instructions for a language model",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Fprint(os.Stdout, scaffold.Instructions())
			return nil
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Fprint(os.Stdout, "\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Fprintf(os.Stdout, "  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Fprintln(os.Stdout, "\nRun 'splice docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, t.Content)
			return nil
		},
	}
}

func fileArg(cmd *cli.Command) (string, error) {
	file := cmd.Args().First()
	if file == "" {
		return "", editerr.Invalid("file", "file argument is required")
	}
	return file, nil
}

func applyOne(cmd *cli.Command, op engine.Operation) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.eng.Apply(op)
	if err != nil {
		return err
	}
	s.emit(res)
	return nil
}
