package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/odtl/dl85/lib/cover"
	"github.com/odtl/dl85/lib/dataset"
	"github.com/odtl/dl85/lib/query"
	"github.com/odtl/dl85/lib/search"
	"github.com/odtl/dl85/lib/textui"
	"github.com/odtl/dl85/lib/trie"
)

func newFitCommand(configPath *string, logLevelFlag *textui.LogLevelFlag) *cobra.Command {
	var flags Config
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Find an optimal decision tree for a transactional dataset",

		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
	}
	cmd.Flags().StringVar(&flags.Data, "data", "", "path to the transactional CSV dataset")
	cmd.Flags().BoolVar(&flags.HasHeader, "header", false, "CSV has a header row")
	cmd.Flags().BoolVar(&flags.ClassFirst, "classfirst", false, "class label is the first column, not the last")
	cmd.Flags().StringVar(&flags.Comma, "comma", "", "CSV field separator (default ',')")
	cmd.Flags().IntVar(&flags.MinSupport, "minsup", 0, "minimum support per leaf")
	cmd.Flags().IntVar(&flags.MaxDepth, "maxdepth", 0, "maximum tree depth")
	cmd.Flags().Float64Var(&flags.MaxError, "max-error", 0, "strict upper bound on tree error (0 means use the default, unbounded)")
	cmd.Flags().StringVar(&flags.TimeLimit, "time-limit", "", "soft wall-clock budget, e.g. 30s (default: unbounded)")
	cmd.Flags().BoolVar(&flags.StopAfterError, "stopaftererror", false, "stop branching at the root once max-error is beaten")
	cmd.Flags().StringVar(&flags.InfoGain, "infogain", "", "successor ordering: none, asc, or desc (default none)")
	cmd.Flags().BoolVar(&flags.RepeatSort, "repeatsort", false, "re-sort successors by information gain every time they are generated, not only the first time")
	cmd.Flags().Float64SliceVar(&flags.Weights, "weights", nil, "per-class error weights, e.g. 1,5")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "write the tree to `path` (default: stdout)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(*configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, &cfg, &flags)
		if cfg.Data == "" {
			return fmt.Errorf("--data is required")
		}
		return runFit(cmd, cfg)
	}
	return cmd
}

// applyFlagOverrides layers any pflag the user actually set on top of the
// file+env-derived Config: CLI flags always beat the config file and
// environment.
func applyFlagOverrides(cmd *cobra.Command, cfg *Config, flags *Config) {
	set := cmd.Flags().Changed
	if set("data") {
		cfg.Data = flags.Data
	}
	if set("header") {
		cfg.HasHeader = flags.HasHeader
	}
	if set("classfirst") {
		cfg.ClassFirst = flags.ClassFirst
	}
	if set("comma") {
		cfg.Comma = flags.Comma
	}
	if set("minsup") {
		cfg.MinSupport = flags.MinSupport
	}
	if set("maxdepth") {
		cfg.MaxDepth = flags.MaxDepth
	}
	if set("max-error") {
		cfg.MaxError = flags.MaxError
	}
	if set("time-limit") {
		cfg.TimeLimit = flags.TimeLimit
	}
	if set("stopaftererror") {
		cfg.StopAfterError = flags.StopAfterError
	}
	if set("infogain") {
		cfg.InfoGain = flags.InfoGain
	}
	if set("repeatsort") {
		cfg.RepeatSort = flags.RepeatSort
	}
	if set("weights") {
		cfg.Weights = flags.Weights
	}
	if set("output") {
		cfg.Output = flags.Output
	}
}

func runFit(cmd *cobra.Command, cfg Config) error {
	ctx := cmd.Context()
	ctx = dlog.WithField(ctx, "mem", new(textui.LiveMemUse))

	f, err := os.Open(cfg.Data)
	if err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	opts := dataset.Options{HasHeader: cfg.HasHeader, ClassFirst: cfg.ClassFirst}
	if cfg.Comma != "" {
		opts.Comma = []rune(cfg.Comma)[0]
	}
	dlog.Infof(ctx, "loading %s...", cfg.Data)
	data, labels, err := dataset.Load(f, opts)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	dims := dataset.Bounds(data)
	dlog.Infof(ctx, "loaded %d transactions, %d attributes, %d classes", dims.Transactions, dims.Attributes, data.NClasses)

	timeLimit, err := cfg.ParseTimeLimit()
	if err != nil {
		return err
	}
	qcfg := query.Config{
		MinSupport:     cfg.MinSupport,
		MaxDepth:       cfg.MaxDepth,
		MaxError:       cfg.MaxError,
		TimeLimit:      timeLimit,
		StopAfterError: cfg.StopAfterError,
	}
	if qcfg.MaxError == 0 {
		qcfg.MaxError = math.Inf(1)
	}

	var q query.Query
	if len(cfg.Weights) > 0 {
		q = query.NewWeightedQuery(qcfg, cfg.Weights)
	} else {
		q = query.NewMisclassQuery(qcfg)
	}

	order, err := parseInfoGainOrder(cfg.InfoGain)
	if err != nil {
		return err
	}

	tr := trie.New()
	eng := search.New(q, tr)
	eng.InfoGain = order
	eng.RepeatSort = cfg.RepeatSort

	progress := textui.NewProgress[search.EngineStats](ctx, dlog.LogLevelInfo, textui.Tunable(2*time.Second))
	eng.Progress = progress

	root, err := eng.Run(ctx, cover.NewRoot(data))
	progress.Done()
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	out := buildTree(root.Data(), labels)
	return writeTree(cfg.Output, out)
}

func parseInfoGainOrder(s string) (search.Order, error) {
	switch s {
	case "", "none":
		return search.NoOrder, nil
	case "asc":
		return search.Ascending, nil
	case "desc":
		return search.Descending, nil
	default:
		return search.NoOrder, fmt.Errorf("invalid --infogain %q: want none, asc, or desc", s)
	}
}
