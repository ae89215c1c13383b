// fancyhash computes and verifies cryptographic digests of large files and
// shows a progress line while doing so.
//
// Compute mode prints "<hex> *<file>" lines; check mode (-c) reads checksum
// lists in md5sum, openssl, BSD tag or bare-digest style and verifies every
// entry. Exit status: 0 ok, 1 mismatches, 2 trouble, 99 interrupted.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fancyhash/internal/algo"
	"fancyhash/internal/config"
	"fancyhash/internal/console"
)

const (
	progName    = "fancyhash"
	progVersion = "1.0.0"
)

type options struct {
	cfg config.Config

	check      bool
	verbose    int
	quiet      int
	noGlob     bool
	prompt     bool
	list       bool
	configPath string
	output     string
	appendOut  bool
}

type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// tty is set when stderr is a terminal that can show progress.
	tty bool
}

func newRootCmd(o *options, st streams, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:     progName + " [flags] FILE...",
		Short:   "Compute and check cryptographic digests of large files",
		Version: progVersion,
		Long: "Compute cryptographic hashes, especially for large files; during\n" +
			"calculation a progress line is displayed (unless switched off via --quiet).\n" +
			"With --check, read checksum lists and verify the files they name. For lists\n" +
			"holding only the digest, the file name is guessed from the list's name.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.resolve(cmd.Flags()); err != nil {
				return err
			}
			if o.list {
				for _, name := range algo.Names() {
					fmt.Fprintln(st.stdout, name)
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			*code = run(ctx, o, args, st)
			return nil
		},
	}
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	cmd.SetOut(st.stdout)
	cmd.SetErr(st.stderr)

	fs := cmd.Flags()
	fs.SortFlags = false

	fs.BoolVarP(&o.check, "check", "c", false, "read checksum lists from the FILEs and check the files they name")
	fs.StringVarP(&o.cfg.Algorithm, "algorithm", "a", o.cfg.Algorithm,
		"the algorithm to use, unless given by the list line or guessed from the digest length; also --md5 etc.")
	fs.BoolVar(&o.prompt, "prompt", false, "prompt for [Return] before quitting")

	fs.BoolVar(&o.cfg.Glob, "glob", o.cfg.Glob, "expand wildcards in FILE arguments")
	fs.BoolVar(&o.noGlob, "no-glob", false, "take FILE arguments literally")

	fs.CountVarP(&o.verbose, "verbose", "v", "more output, may be repeated")
	fs.CountVarP(&o.quiet, "quiet", "q", "less output, may be repeated")
	fs.IntVar(&o.cfg.Verbosity, "verbosity", o.cfg.Verbosity, "base verbosity that -v and -q adjust")
	fs.Float64Var(&o.cfg.RefreshInterval, "refresh-interval", o.cfg.RefreshInterval,
		"the time [seconds] between progress updates")
	fs.StringVar(&o.cfg.LogLevel, "log-level", o.cfg.LogLevel, "log level, overrides -v and -q")

	fs.BoolVar(&o.cfg.Tag, "tag", o.cfg.Tag, "create BSD-style checksum lines")
	fs.StringVar(&o.cfg.Format, "format", o.cfg.Format,
		"output line template, tags: {digest} {file} {algorithm} {ALGORITHM}")
	fs.StringVarP(&o.output, "output", "o", "", "write computed checksum lines to this file")
	fs.BoolVar(&o.appendOut, "append", false, "append to the --output file")

	fs.BoolVarP(&o.cfg.Warn, "warn", "w", o.cfg.Warn, "warn about improperly formatted checksum lines")
	fs.BoolVar(&o.cfg.Strict, "strict", o.cfg.Strict, "exit non-zero for improperly formatted checksum lines")
	fs.BoolVar(&o.cfg.Status, "status", o.cfg.Status, "don't output anything, status code shows success")
	fs.BoolVar(&o.cfg.IgnoreMissing, "ignore-missing", o.cfg.IgnoreMissing, "don't fail or report status for missing files")
	fs.StringVar(&o.cfg.Summary, "summary", o.cfg.Summary, "summary format: text or json")

	fs.StringVar(&o.configPath, "config", "", "read settings from this TOML or YAML file")
	fs.BoolVarP(&o.list, "list", "l", false, "list supported algorithms")

	for _, name := range algo.Names() {
		fs.Bool(name, false, "use "+name)
		_ = fs.MarkHidden(name)
	}

	return cmd
}

// resolve settles the configuration after flag parsing: environment first,
// then the config file, each only for flags not set before.
func (o *options) resolve(fs *pflag.FlagSet) error {
	if err := config.SetFlagsFromEnv(fs, config.EnvPrefix); err != nil {
		return err
	}
	if o.configPath != "" {
		f, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		if err := f.Apply(fs); err != nil {
			return fmt.Errorf("%s: %w", o.configPath, err)
		}
	}

	for _, name := range algo.Names() {
		if v, _ := fs.GetBool(name); v {
			o.cfg.Algorithm = name
		}
	}
	if o.noGlob {
		o.cfg.Glob = false
	}
	return o.cfg.Validate()
}

func (o *options) verbosity() int {
	return o.cfg.Verbosity + o.verbose - o.quiet
}

func main() {
	var (
		o    = options{cfg: config.Default()}
		code int
	)
	st := streams{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		tty:    console.IsTerminal(os.Stderr),
	}

	if err := newRootCmd(&o, st, &code).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", progName, err)
		os.Exit(console.ExitTrouble)
	}
	os.Exit(code)
}
