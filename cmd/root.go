// Package cmd wires the command line: the interactive map by default and a
// few plain-output subcommands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"film-map-cli/catalog"
	"film-map-cli/config"
	"film-map-cli/logging"
	"film-map-cli/palette"
	"film-map-cli/service"
	"film-map-cli/tui"
)

const appName = "film-map"

var (
	version = "dev"
	commit  = "none"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	cfg        config.Config
	httpClient *http.Client
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		logging.Error(err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if config.IsConfigError(err) {
			return 2
		}
		return 1
	}
	return 0
}

func newRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	a := &app{httpClient: &http.Client{Timeout: 12 * time.Second}}

	root := &cobra.Command{
		Use:   appName,
		Short: "Browse one film per region on a map",
		Long: `Film Map shows a catalog of films, one per province or territory,
on a colour-coded map of Canada, in lists by region or by title, and
in a detail panel with links to film sites.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				c, err := a.loadCatalog(cmd.Context())
				if err != nil {
					return err
				}
				return renderList(cmd.OutOrStdout(), c, sortByTitle)
			}
			return a.runTUI()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.Error{Err: err}
	})

	flags := root.PersistentFlags()
	flags.String("source", config.DefaultSource, `film data: "builtin", a JSON file path or an http(s) URL`)
	flags.Int64("seed", 0, "seed for colour assignment (0 picks a new one each run)")
	flags.Duration("cache-ttl", config.DefaultCacheTTL, "how long a downloaded dataset is reused (0 disables the cache)")
	flags.String("log-file", "", "path to the log file")
	flags.Bool("trace", false, "enable verbose JSON trace logging")
	flags.String("config", "", "path to a YAML config file")

	root.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newExportSVGCommand(a),
		newVersionCommand(),
	)
	return root
}

func (a *app) configure(cmd *cobra.Command) error {
	flags := cmd.Flags()
	var o config.Overrides
	if flags.Changed("config") {
		v, _ := flags.GetString("config")
		o.ConfigFile = &v
	}
	if flags.Changed("source") {
		v, _ := flags.GetString("source")
		o.Source = &v
	}
	if flags.Changed("seed") {
		v, _ := flags.GetInt64("seed")
		o.Seed = &v
	}
	if flags.Changed("cache-ttl") {
		v, _ := flags.GetDuration("cache-ttl")
		o.CacheTTL = &v
	}
	if flags.Changed("log-file") {
		v, _ := flags.GetString("log-file")
		o.LogFile = &v
	}
	if flags.Changed("trace") {
		v, _ := flags.GetBool("trace")
		o.Trace = &v
	}

	cfg, err := config.Load(o)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	logging.Trace("config.loaded", map[string]interface{}{
		"source":    cfg.Source,
		"seed":      cfg.Seed,
		"cache_ttl": cfg.CacheTTL.String(),
		"file":      cfg.File,
	})
	return nil
}

func (a *app) openSource() (service.Source, error) {
	src, err := service.OpenSource(a.cfg.Source, a.httpClient, a.cfg.CacheTTL)
	if err != nil {
		return nil, &config.Error{Err: err}
	}
	return src, nil
}

func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	src, err := a.openSource()
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return catalog.Load(ctx, src, palette.NewAssigner(a.cfg.Seed))
}

func (a *app) runTUI() error {
	src, err := a.openSource()
	if err != nil {
		return err
	}
	model := tui.New(tui.Options{
		Source:     src,
		Assigner:   palette.NewAssigner(a.cfg.Seed),
		SourceName: sourceLabel(src),
		HTTPClient: a.httpClient,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func sourceLabel(src service.Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, version)
			if commit != "none" && commit != "" {
				fmt.Fprintf(out, " (%s)", commit)
			}
			fmt.Fprintln(out)
		},
	}
}
