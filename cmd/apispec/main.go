package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/toyz/apispec/internal/annotations"
	"github.com/toyz/apispec/internal/cli"
	"github.com/toyz/apispec/internal/server"
	"github.com/toyz/apispec/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// flagValues receives raw flag values; only flags the user set are merged
// over the configuration file.
type flagValues struct {
	verbose bool
	quiet   bool
	module  string
	format  string
	output  string
	all     bool
	addr    string
	engine  string
}

type app struct {
	stdout, stderr io.Writer

	configPath  string
	flags       flagValues
	cfg         cli.Config
	diagnostics *utils.DiagnosticSystem
	reporter    *cli.DiagnosticReporter
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if a.reporter == nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		a.reporter.ReportError(err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "apispec",
		Short: "Describe Go APIs declared with //api:: annotations",
		Long: `apispec scans Go packages for //api:: annotations and builds description
trees of every API method: descriptions, parameter bounds and required flags.

Directory arguments support Go-style patterns:
  ./...              Scan current directory and all subdirectories recursively
  ./internal/...     Scan internal directory and all its subdirectories
  ./pkg/calc         Scan only the specific directory`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to an apispec YAML configuration file")
	pf.BoolVar(&a.flags.verbose, "verbose", false, "Enable verbose output and detailed error reporting")
	pf.BoolVar(&a.flags.quiet, "quiet", false, "Only show errors")

	root.AddCommand(a.describeCommand(), a.serveCommand(), a.schemasCommand())
	return root
}

func (a *app) describeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [directories...]",
		Short: "Write the description document of the scanned packages",
		Example: `  apispec describe ./...
  apispec describe --format yaml --output api.yaml ./internal/...
  apispec describe --module github.com/myorg/myapp --all ./pkg/calc`,
		RunE: a.runDescribe,
	}

	f := cmd.Flags()
	f.StringVar(&a.flags.format, "format", "json", "Output format: json or yaml")
	f.StringVarP(&a.flags.output, "output", "o", "-", "Output file, '-' for stdout")
	f.StringVar(&a.flags.module, "module", "", "Custom module path (defaults to go.mod module)")
	f.BoolVar(&a.flags.all, "all", false, "Include types without a description or API method")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [directories...]",
		Short: "Serve the descriptions of the scanned packages over HTTP",
		Example: `  apispec serve ./...
  apispec serve --addr :9090 --engine fiber ./internal/...`,
		RunE: a.runServe,
	}

	f := cmd.Flags()
	f.StringVar(&a.flags.addr, "addr", ":8080", "Listen address")
	f.StringVar(&a.flags.engine, "engine", "echo", "HTTP engine: echo, gin or fiber")
	f.StringVar(&a.flags.module, "module", "", "Custom module path (defaults to go.mod module)")
	return cmd
}

func (a *app) schemasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the supported //api:: annotations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.PrintSchemas(a.stdout, annotations.DefaultRegistry())
		},
	}
}

// setup layers defaults, the config file and flags, then validates the result
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg := cli.DefaultConfig()
	if a.configPath != "" {
		if err := cli.LoadConfigFile(a.configPath, &cfg); err != nil {
			a.newReporter(a.flags.verbose)
			return err
		}
	}
	a.applyFlags(cmd, &cfg, args)
	a.newReporter(cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	switch {
	case cfg.Quiet:
		a.diagnostics = utils.NewQuietDiagnostics()
	case cfg.Verbose:
		a.diagnostics = utils.NewVerboseDiagnostics()
	default:
		a.diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if a.stderr != os.Stderr {
		a.diagnostics.SetOutput(a.stderr, a.stderr)
	}
	return nil
}

func (a *app) newReporter(verbose bool) {
	a.reporter = cli.NewDiagnosticReporter(verbose)
	if a.stderr != os.Stderr {
		a.reporter.SetOutput(a.stderr)
	}
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *cli.Config, args []string) {
	f := cmd.Flags()
	if f.Changed("verbose") {
		cfg.Verbose = a.flags.verbose
	}
	if f.Changed("quiet") {
		cfg.Quiet = a.flags.quiet
	}
	if f.Changed("module") {
		cfg.ModuleName = a.flags.module
	}
	if f.Changed("format") {
		cfg.Format = a.flags.format
	}
	if f.Changed("output") {
		cfg.Output = a.flags.output
	}
	if f.Changed("all") {
		cfg.All = a.flags.all
	}
	if f.Changed("addr") {
		cfg.Server.Addr = a.flags.addr
	}
	if f.Changed("engine") {
		cfg.Server.Engine = a.flags.engine
	}
	if len(args) > 0 {
		cfg.Directories = args
	}
}

func (a *app) runDescribe(cmd *cobra.Command, _ []string) error {
	a.diagnostics.Header("describing %s", strings.Join(a.cfg.Directories, ", "))

	documenter := cli.NewDocumenter(a.diagnostics)
	_, doc, err := documenter.Run(a.cfg)
	if err != nil {
		return err
	}

	if err := cli.WriteOutput(a.stdout, a.cfg.Output, a.cfg.Format, doc); err != nil {
		return err
	}

	summary := documenter.Summary()
	a.diagnostics.Summary("Description complete", map[string]interface{}{
		"Module":           summary.Module,
		"Packages scanned": summary.PackagesScanned,
		"Files parsed":     summary.FilesParsed,
		"Types described":  summary.TypesDescribed,
		"API methods":      summary.APIMethods,
		"Duration":         summary.Duration.Round(time.Millisecond),
	})
	if a.cfg.Output != "-" {
		a.diagnostics.Success("Wrote %s", a.cfg.Output)
	}
	return nil
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	a.diagnostics.Header("serving %s", strings.Join(a.cfg.Directories, ", "))

	catalog, err := cli.NewDocumenter(a.diagnostics).BuildCatalog(a.cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(catalog, a.cfg.Server.Engine, a.diagnostics)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(a.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.diagnostics.Success("Server shutdown complete")
	return nil
}
