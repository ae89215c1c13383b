package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"fancyhash/internal/checksumline"
	"fancyhash/internal/config"
	"fancyhash/internal/console"
	"fancyhash/internal/digest"
	"fancyhash/internal/verify"
)

// run processes every FILE argument and returns the exit status.
func run(ctx context.Context, o *options, args []string, st streams) int {
	verbosity := o.verbosity()

	log, err := console.NewLogger(st.stderr, verbosity, o.cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(st.stderr, "%s: %v\n", progName, err)
		return console.ExitTrouble
	}
	if o.cfg.Status {
		log.SetLevel(logrus.PanicLevel)
	}

	if len(args) == 0 {
		log.Error("No files given!")
		return console.ExitTrouble
	}
	if o.cfg.Glob {
		args = expandGlobs(args)
	}

	id, err := o.cfg.AlgorithmID(o.check)
	if err != nil {
		log.Error(err)
		return console.ExitTrouble
	}
	format, err := checksumline.NewFormatter(o.cfg.OutputFormat())
	if err != nil {
		log.Error(err)
		return console.ExitTrouble
	}

	out, closeOut, err := openOutput(o, st.stdout)
	if err != nil {
		log.Errorf("cannot open output: %v", err)
		return console.ExitTrouble
	}
	defer closeOut()

	var progress *console.Progress
	opts := verify.Options{
		Algorithm:     id,
		Quiet:         verbosity <= 0,
		Status:        o.cfg.Status,
		Warn:          o.cfg.Warn,
		IgnoreMissing: o.cfg.IgnoreMissing,
		Format:        format,
		Stdin:         st.stdin,
	}
	if st.tty && verbosity >= 1 && !o.cfg.Status {
		progress = console.NewProgress(st.stderr)
		opts.Progress = progress.Update
	}

	ses, err := verify.New(digest.NewEngine(digest.WithInterval(o.cfg.Interval())), out, log, opts)
	if err != nil {
		log.Error(err)
		return console.ExitTrouble
	}

	report := console.Report{Strict: o.cfg.Strict}
	for _, fn := range args {
		var (
			c   verify.Counters
			err error
		)
		if o.check {
			c, err = ses.Check(ctx, fn)
		} else {
			c, err = ses.Compute(ctx, fn)
		}
		report.Merge(c)

		if ctx.Err() != nil {
			report.Aborted = true
			if progress != nil {
				progress.Abort(fn)
			} else if !o.cfg.Status {
				fmt.Fprintln(st.stderr, "... aborted.")
			}
			break
		}
		if err != nil {
			log.Error(err)
			report.Fatal++
		}
	}

	finish(o, st, log, report)
	return report.ExitCode()
}

// finish reports the run summary and waits for the user if asked to.
func finish(o *options, st streams, log logrus.FieldLogger, report console.Report) {
	switch {
	case o.cfg.Status:
	case o.cfg.Summary == config.SummaryJSON:
		if err := report.WriteJSON(st.stdout); err != nil {
			log.Error(err)
		}
	default:
		report.Warn(log)
	}

	if o.prompt {
		fmt.Fprint(st.stderr, "Press [Return] key to quit: ")
		_, _ = bufio.NewReader(st.stdin).ReadString('\n')
	}
}

func openOutput(o *options, stdout io.Writer) (io.Writer, func(), error) {
	if o.output == "" || o.output == "-" {
		return stdout, func() {}, nil
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if o.appendOut {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(o.output, flags, 0o666) //nolint:gosec // output path comes from the command line
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
