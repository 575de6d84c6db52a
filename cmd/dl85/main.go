// Command dl85 trains an optimal bounded-depth decision tree over a
// binary-attribute transactional dataset and prints the resulting tree as
// JSON: argument parsing, configuration loading, and output serialization
// wired around the lib/search branch-and-bound engine.
package main

import (
	"context"
	"os"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/odtl/dl85/lib/textui"
)

func main() {
	logLevelFlag := textui.LogLevelFlag{Level: dlog.LogLevelInfo}
	var configPath string

	argparser := &cobra.Command{
		Use:   "dl85 {[flags]|SUBCOMMAND}",
		Short: "Train an optimal bounded-depth decision tree",

		Args: cliutil.WrapPositionalArgs(cliutil.OnlySubcommands),
		RunE: cliutil.RunSubcommands,

		SilenceErrors: true,
		SilenceUsage:  true,

		CompletionOptions: cobra.CompletionOptions{ //nolint:exhaustivestruct
			DisableDefaultCmd: true,
		},
	}
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
	argparser.PersistentFlags().Var(&logLevelFlag, "verbosity", "set the verbosity")
	argparser.PersistentFlags().StringVar(&configPath, "config", "", "load defaults from `config.yaml`")

	fit := newFitCommand(&configPath, &logLevelFlag)
	runFit := fit.RunE
	fit.RunE = func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		logger := textui.NewLogger(os.Stderr, logLevelFlag.Level)
		ctx = dlog.WithLogger(ctx, logger)

		grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
			EnableSignalHandling: true,
		})
		grp.Go("main", func(ctx context.Context) error {
			cmd.SetContext(ctx)
			return runFit(cmd, args)
		})
		return grp.Wait()
	}
	argparser.AddCommand(fit)

	if err := argparser.ExecuteContext(context.Background()); err != nil {
		textui.Fprintf(os.Stderr, "%v: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
