package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/acronis/go-stacktrace"
	slogex "github.com/acronis/go-stacktrace/slogex"
	"github.com/dusted-go/logging/prettylog"
	"github.com/mattn/go-isatty"
	slogformatter "github.com/samber/slog-formatter"
	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/internal/app/command"
	"github.com/openconceptlab/ocladmin/internal/app/commands/dictcmd"
	"github.com/openconceptlab/ocladmin/internal/app/commands/localescmd"
	"github.com/openconceptlab/ocladmin/internal/app/commands/logincmd"
	"github.com/openconceptlab/ocladmin/internal/app/commands/logoutcmd"
	"github.com/openconceptlab/ocladmin/internal/app/commands/orgscmd"
	"github.com/openconceptlab/ocladmin/internal/app/commands/whoamicmd"
	"github.com/openconceptlab/ocladmin/pkg/model"
)

func initLogging(verbose bool) {
	logLvl := func() slog.Level {
		if verbose {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}()
	w := os.Stderr
	slog.SetDefault(newLogger(w, logLvl, isatty.IsTerminal(w.Fd())))
}

func newLogger(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(
		slogformatter.NewFormatterHandler(
			slogformatter.HTTPRequestFormatter(false),
			slogformatter.HTTPResponseFormatter(false),
			slogformatter.FormatByType(func(s []string) slog.Value {
				return slog.StringValue(strings.Join(s, ","))
			}),
			slogformatter.FormatByType(func(errs *model.FieldErrors) slog.Value {
				return slog.StringValue(errs.String())
			}),
		)(
			prettylog.New(&slog.HandlerOptions{Level: level},
				prettylog.WithDestinationWriter(w),
				func() prettylog.Option {
					if color {
						return prettylog.WithColor()
					}
					return func(_ *prettylog.Handler) {}
				}(),
			),
		),
	)
}

const (
	verboseFlag = "verbose"
)

func main() {
	os.Exit(mainFn())
}

func mainFn() int {
	var ensureDuplicates bool
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := func() *cobra.Command {
		cmd := &cobra.Command{
			Use:           "ocladmin",
			Short:         "ocladmin manages Open Concept Lab dictionaries and organisations",
			SilenceUsage:  true,
			SilenceErrors: true,
			PersistentPreRun: func(cmd *cobra.Command, _ []string) {
				verbose, err := cmd.Flags().GetBool(verboseFlag)
				if err != nil {
					fmt.Printf("Failed to get verbosity flag: %v\n", err)
					os.Exit(1)
				}

				initLogging(verbose)
			},
			CompletionOptions: cobra.CompletionOptions{
				DisableDefaultCmd: true,
			},
		}

		command.AddConfigFlags(cmd)

		cmd.PersistentFlags().BoolP(verboseFlag, "v", false, "verbose output")
		cmd.PersistentFlags().BoolVarP(&ensureDuplicates, "ensure-duplicates", "d", false, "ensure that there are no duplicates in tracebacks")

		cmd.AddCommand(
			logincmd.New(ctx),
			logoutcmd.New(ctx),
			whoamicmd.New(ctx),
			orgscmd.New(ctx),
			dictcmd.New(ctx),
			localescmd.New(ctx),
		)
		return cmd
	}()

	if err := rootCmd.Execute(); err != nil {
		var cmdErr *command.Error
		if errors.As(err, &cmdErr) && cmdErr.Inner != nil {
			stOpts := func() []stacktrace.TracesOpt {
				if ensureDuplicates {
					return []stacktrace.TracesOpt{stacktrace.WithEnsureDuplicates()}
				}
				return []stacktrace.TracesOpt{}
			}()

			slog.Error(cmdErr.Msg, slogex.ErrToSlogAttr(cmdErr.Inner, stOpts...))
		} else {
			slog.Error("Command failed", slog.Any("error", err))
			_ = rootCmd.Usage()
		}
		return 1
	}

	return 0
}
