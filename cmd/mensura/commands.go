package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/mensura/catalog"
	"github.com/katalvlaran/mensura/converter"
	"github.com/katalvlaran/mensura/core"
	"github.com/katalvlaran/mensura/server"
)

// app carries flag values and the state built in PersistentPreRunE.
type app struct {
	configPath  string
	catalogPath string
	logLevel    string
	strict      bool
	noBuiltin   bool

	cfg    Config
	logger *slog.Logger
}

// newRootCmd assembles the command tree.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mensura",
		Short: "Convert values between units through a graph of conversion rules",
		Long: `mensura converts a value from one unit to another by chaining known
conversion rules. Units without a direct rule convert as long as some chain
of rules connects them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.catalogPath, "catalog", "", "YAML catalog merged over the built-in rules")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.strict, "strict", false, "reject catalogs that redefine a conversion")
	pf.BoolVar(&a.noBuiltin, "no-builtin", false, "do not load the built-in rules")

	root.AddCommand(
		a.convertCmd(),
		a.pathCmd(),
		a.unitsCmd(),
		a.catalogCmd(),
		a.serveCmd(),
	)

	return root
}

// setup loads config and applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog = a.catalogPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("strict") {
		cfg.Strict = a.strict
	}
	if flags.Changed("no-builtin") {
		builtin := !a.noBuiltin
		cfg.Builtin = &builtin
	}

	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	return nil
}

// converter builds a converter from the configured catalog.
func (a *app) converter() (*converter.Converter, []core.Rule, error) {
	rules, err := a.cfg.rules()
	if err != nil {
		return nil, nil, err
	}
	c, err := converter.New(rules, a.cfg.converterOptions(a.logger)...)
	if err != nil {
		return nil, nil, err
	}

	return c, rules, nil
}

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "convert VALUE FROM TO",
		Short:   "Convert VALUE from one unit to another",
		Example: "  mensura convert 1000 meter mile",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			c, _, err := a.converter()
			if err != nil {
				return err
			}

			result, err := c.Convert(value, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(result, 'g', -1, 64))

			return nil
		},
	}
}

func (a *app) pathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path FROM TO",
		Short: "Show the chain of units used to convert FROM to TO",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.converter()
			if err != nil {
				return err
			}

			units, factor, err := c.Path(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n1 %s = %s %s\n",
				strings.Join(units, " -> "),
				units[0],
				strconv.FormatFloat(factor, 'g', -1, 64),
				units[len(units)-1],
			)

			return nil
		},
	}
}

func (a *app) unitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List every known unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.converter()
			if err != nil {
				return err
			}
			for _, u := range c.Units() {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}

			return nil
		},
	}
}

func (a *app) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the effective catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rules, err := a.converter()
			if err != nil {
				return err
			}

			return catalog.Encode(cmd.OutOrStdout(), rules)
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Server.Watch = watch
			}

			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the catalog file when it changes")

	return cmd
}

// serve runs the HTTP server and, if enabled, the catalog watcher until ctx ends.
func (a *app) serve(ctx context.Context) error {
	if a.cfg.Server.Watch && a.cfg.Catalog == "" {
		return errors.New("--watch needs a catalog file")
	}
	c, _, err := a.converter()
	if err != nil {
		return err
	}
	holder := server.NewHolder(c)
	srv := server.New(holder, server.Config{Addr: a.cfg.Server.Addr, Logger: a.logger})

	var w *catalog.Watcher
	if a.cfg.Server.Watch {
		w, err = catalog.NewWatcher(a.cfg.Catalog, a.reloadInto(holder), &catalog.WatcherOptions{Logger: a.logger})
		if err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	if w != nil {
		g.Go(func() error { return w.Run(ctx) })
	}

	return g.Wait()
}

// reloadInto returns a watcher handler that rebuilds the served converter.
func (a *app) reloadInto(holder *server.Holder) catalog.ReloadHandler {
	return func(extra []core.Rule) {
		var rules []core.Rule
		if a.cfg.Builtin == nil || *a.cfg.Builtin {
			rules = catalog.Merge(catalog.Default(), extra)
		} else {
			rules = extra
		}
		if err := holder.Rebuild(rules, a.cfg.converterOptions(a.logger)...); err != nil {
			a.logger.Error("catalog rejected", slog.Any("error", err))
			return
		}
		a.logger.Info("converter rebuilt", slog.Int("units", len(holder.Load().Units())))
	}
}
