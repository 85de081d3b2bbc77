package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chemviz/internal/bootstrap"
	"chemviz/internal/platform/config"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/ui/chart"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		os.Exit(1)
	}
}

type globalFlags struct {
	stateDir string
	baseURL  string
	envFile  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "chemviz",
		Short:         "Chemical equipment analytics client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.stateDir, "state-dir", "", "state directory (default $HOME/.chemviz)")
	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "analysis service base url")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "dotenv file to load (default .env)")

	root.AddCommand(newLoginCmd(flags))
	root.AddCommand(newLogoutCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newUploadCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

func loadApp(flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := config.New(config.Options{
		StateDir: flags.stateDir,
		BaseURL:  flags.baseURL,
		EnvFile:  flags.envFile,
	})
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp runs fn against a freshly bootstrapped app and closes it after.
func withApp(flags *globalFlags, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, err := loadApp(flags)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(context.Background(), app)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(flags, func(_ context.Context, app *bootstrap.App) error {
				return bootstrap.RunTUI(app)
			})
		},
	}
}

func newLoginCmd(flags *globalFlags) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain and store a session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if username == "" {
				if username, err = prompt(in, cmd.OutOrStdout(), "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(in, cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Login(ctx, username, password)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", out.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.SessionCLI.Logout(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out := app.SessionCLI.Current(ctx)
				if !out.Present {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s since %s\nserver: %s\n",
					out.Username, humanize.Time(out.IssuedAt), app.Config.BaseURL)
				return nil
			})
		},
	}
}

func newUploadCmd(flags *globalFlags) *cobra.Command {
	var chartPath string
	cmd := &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a CSV and print its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if _, err := app.UploadCLI.SelectFile(ctx, args[0]); err != nil {
					return err
				}
				state, err := app.UploadCLI.Run(ctx)
				if err != nil {
					return err
				}
				stats := state.Stats
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "file:            %s (%s)\n", state.FileName, humanize.IBytes(uint64(state.FileSize)))
				_, _ = fmt.Fprintf(w, "total records:   %s\n", humanize.Comma(int64(stats.Records)))
				_, _ = fmt.Fprintf(w, "avg flowrate:    %g\n", stats.Flow)
				_, _ = fmt.Fprintf(w, "avg pressure:    %g\n", stats.Pressure)
				_, _ = fmt.Fprintf(w, "avg temperature: %g\n\n", stats.Temperature)
				_, _ = fmt.Fprintln(w, chart.Bars(stats.Chart, 60))

				if chartPath == "" || stats.Chart.IsNoData() {
					return nil
				}
				f, err := os.Create(chartPath)
				if err != nil {
					return fmt.Errorf("create chart file: %w", err)
				}
				if err := chart.RenderPNG(stats.Chart, f); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close chart file: %w", err)
				}
				_, _ = fmt.Fprintf(w, "\nchart written to %s\n", chartPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "also write the distribution chart as PNG to this path")
	return cmd
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List previous uploads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				listing, err := app.HistoryCLI.Load(ctx)
				if err != nil {
					return err
				}
				if listing.Empty {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No history records found.")
					return nil
				}
				for _, r := range listing.Records {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%g\t%g\t%g\n",
						r.ID, r.UploadedAt.Local().Format(time.DateTime), r.TotalEquipment,
						r.AvgFlowrate, r.AvgPressure, r.AvgTemperature)
				}
				return nil
			})
		},
	}
}

func newReportCmd(flags *globalFlags) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Download the PDF report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ReportCLI.Export(ctx, outDir)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report saved to %s (%s", out.Path, humanize.IBytes(uint64(out.Size)))
				if out.Pages > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), ", %d pages", out.Pages)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), ")")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	return cmd
}
