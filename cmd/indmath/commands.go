package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"

	"github.com/njchilds90/indmath/internal/config"
	"github.com/njchilds90/indmath/internal/logging"
	"github.com/njchilds90/indmath/lp/lpplot"
	"github.com/njchilds90/indmath/server"
	"github.com/njchilds90/indmath/tabs"
	"github.com/njchilds90/indmath/tool"
)

// app is the state shared by every subcommand once the config is loaded.
type app struct {
	v        *viper.Viper
	cfg      config.Config
	log      logr.Logger
	registry *prometheus.Registry
	wb       *tabs.Workbench
	out      io.Writer
	errOut   io.Writer
}

// errPanel reports that a tab displayed an explicit error. The message has
// already been printed.
var errPanel = errors.New("evaluation failed")

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "indmath",
		Short:         "Industrial mathematics calculator: LP corners, EOQ, M/M/1 and partial derivatives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	if err := config.BindFlags(a.v, root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(
		a.lpCommand(),
		a.eoqCommand(),
		a.mm1Command(),
		a.diffCommand(),
		a.serveCommand(),
		a.configCommand(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, a.errOut)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log

	a.registry = prometheus.NewRegistry()
	wb, err := tabs.NewWorkbench(log, a.settings(), a.registry)
	if err != nil {
		return err
	}
	a.wb = wb
	return nil
}

func (a *app) plotOptions() lpplot.Options {
	return lpplot.Options{
		Width:  vg.Length(a.cfg.Plot.Width) * vg.Inch,
		Height: vg.Length(a.cfg.Plot.Height) * vg.Inch,
		Format: a.cfg.Plot.Format,
	}
}

func (a *app) settings() tabs.Settings {
	return tabs.Settings{
		Locale:   a.cfg.Display.Locale,
		Currency: a.cfg.Display.Currency,
		Plot:     a.plotOptions(),
	}
}

// bind registers a float flag on fs and binds it to key.
func (a *app) bind(fs *pflag.FlagSet, key, name, usage string) {
	fs.Float64(name, a.v.GetFloat64(key), usage)
	if err := a.v.BindPFlag(key, fs.Lookup(name)); err != nil {
		panic(err)
	}
}

// show prints a panel. A hidden panel prints nothing.
func (a *app) show(p tabs.Panel) error {
	if !p.Visible {
		return nil
	}
	if p.Error != "" {
		fmt.Fprintln(a.errOut, p.Error)
		return errPanel
	}
	for _, line := range p.Lines {
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *app) lpCommand() *cobra.Command {
	var plotPath string
	cmd := &cobra.Command{
		Use:   "lp",
		Short: "Evaluate Z = c1*x + c2*y at the corners (0,0), (0,y2), (x3,0)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := a.wb.LP(a.cfg.Tabs.LP.Input())
			if err := a.show(p); err != nil {
				return err
			}
			if plotPath == "" {
				return nil
			}
			if p.Plot == nil {
				return fmt.Errorf("no chart rendered; check plot.format")
			}
			if err := os.WriteFile(plotPath, p.Plot, 0o644); err != nil {
				return fmt.Errorf("writing chart: %w", err)
			}
			a.log.Info("Wrote chart", "path", plotPath, "format", p.PlotFormat)
			return nil
		},
	}
	fs := cmd.Flags()
	a.bind(fs, "tabs.lp.c1", "c1", "profit per unit of product X")
	a.bind(fs, "tabs.lp.c2", "c2", "profit per unit of product Y")
	a.bind(fs, "tabs.lp.y2", "y2", "y coordinate of corner (0, y2)")
	a.bind(fs, "tabs.lp.x3", "x3", "x coordinate of corner (x3, 0)")
	fs.StringVar(&plotPath, "plot", "", "write the corner chart to this file")
	return cmd
}

func (a *app) eoqCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eoq",
		Short: "Economic order quantity sqrt(2DS/H)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.show(a.wb.EOQ(a.cfg.Tabs.EOQ.Params()))
		},
	}
	fs := cmd.Flags()
	a.bind(fs, "tabs.eoq.demand", "demand", "annual demand D")
	a.bind(fs, "tabs.eoq.ordering_cost", "ordering-cost", "cost per order S")
	a.bind(fs, "tabs.eoq.holding_cost", "holding-cost", "holding cost per unit per year H")
	return cmd
}

func (a *app) mm1Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mm1",
		Short: "Steady-state metrics of an M/M/1 queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.show(a.wb.MM1(a.cfg.Tabs.MM1.Params()))
		},
	}
	fs := cmd.Flags()
	a.bind(fs, "tabs.mm1.arrival_rate", "arrival-rate", "arrival rate λ")
	a.bind(fs, "tabs.mm1.service_rate", "service-rate", "service rate μ")
	return cmd
}

func (a *app) diffCommand() *cobra.Command {
	var (
		at    []float64
		latex bool
	)
	cmd := &cobra.Command{
		Use:   "diff [function]",
		Short: "Partial derivatives of f(x, y)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := tabs.PartialInput{Function: a.cfg.Tabs.Partial.Function}
			if len(args) == 1 {
				in.Function = args[0]
			}
			if cmd.Flags().Changed("at") {
				if len(at) != 2 {
					return fmt.Errorf("--at takes two values, got %d", len(at))
				}
				in.At = &tabs.Point{X: at[0], Y: at[1]}
			}
			p := a.wb.Partial(in)
			if latex && p.Error == "" {
				p.Lines = p.LaTeX
			}
			return a.show(p)
		},
	}
	cmd.Flags().Float64SliceVar(&at, "at", nil, "evaluate the gradient at x,y")
	cmd.Flags().BoolVar(&latex, "latex", false, "print LaTeX instead of plain text")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			handler := tool.NewHandler(a.wb, a.cfg.Tabs)
			srv := server.New(a.log, a.cfg.Server, handler, a.cfg.Tabs, a.plotOptions(), a.registry)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().String("addr", a.v.GetString("server.addr"), "listen address")
	if err := a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
	return cmd
}

func (a *app) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.Dump(a.out, a.cfg)
		},
	}
}
