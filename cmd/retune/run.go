package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sydlexius/retune/internal/catalog"
	"github.com/sydlexius/retune/internal/catalog/spotify"
	"github.com/sydlexius/retune/internal/config"
	"github.com/sydlexius/retune/internal/engine"
	"github.com/sydlexius/retune/internal/exclusion"
	"github.com/sydlexius/retune/internal/library"
	"github.com/sydlexius/retune/internal/logging"
	"github.com/sydlexius/retune/internal/output"
	"github.com/sydlexius/retune/internal/resolver"
)

const retryBase = 500 * time.Millisecond

func newRunCommand(configFlag *string) *cobra.Command {
	var (
		libraryFlag string
		modeFlag    string
		reportFlag  string
		applyFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the library and reconcile folder names against the catalog",
		Long: `Scan the local artist/album hierarchy, resolve every folder against the
catalog, and report a decision per folder. Without --apply this is a dry
run: nothing on disk is touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if libraryFlag != "" {
				cfg.Library.Path = libraryFlag
			}
			if modeFlag != "" {
				if !resolver.ValidMode(modeFlag) {
					return fmt.Errorf("invalid mode %q", modeFlag)
				}
				cfg.Decision.Mode = modeFlag
			}
			if reportFlag != "" {
				cfg.Output.ReportPath = reportFlag
			}
			if cfg.Library.Path == "" {
				return fmt.Errorf("no library path configured; set library.path or pass --library")
			}
			return runReconcile(cmd, cfg, applyFlag)
		},
	}

	cmd.Flags().StringVarP(&libraryFlag, "library", "l", "", "Library root to scan")
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Decision mode: automatic, manual, or smart")
	cmd.Flags().StringVarP(&reportFlag, "report", "r", "", "Write a JSONL run report to this path")
	cmd.Flags().BoolVar(&applyFlag, "apply", false, "Carry out rename decisions instead of a dry run")

	return cmd
}

func runReconcile(cmd *cobra.Command, cfg *config.Config, apply bool) error {
	logger, closer := logging.New(cfg.Logging)
	if closer != nil {
		defer closer.Close() //nolint:errcheck
	}

	patterns := append([]string(nil), cfg.Library.Exclusions...)
	if cfg.Library.ExclusionFile != "" {
		extra, err := exclusion.LoadFile(cfg.Library.ExclusionFile)
		if err != nil {
			return err
		}
		patterns = append(patterns, extra...)
	}

	spotifyClient, err := spotify.New(cfg.Catalog.Spotify, logger)
	if err != nil {
		return err
	}
	retrying := catalog.NewRetryingClient(spotifyClient, cfg.Catalog.Retries, retryBase, logger)
	cached := catalog.NewCachedClient(retrying, catalog.NewCache(), catalog.NewThrottle(cfg.Catalog.MinInterval()), logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Prime the artist cache before the pass so the run loop mostly hits
	// warm entries.
	if artists, err := library.Enumerate(cfg.Library.Path); err == nil {
		names := make([]string, 0, len(artists))
		for _, a := range artists {
			names = append(names, a.Name)
		}
		cached.WarmArtists(ctx, names, cfg.Catalog.BatchSize)
	}

	res := resolver.New(cached, cfg.Matching, logger)
	eng := engine.New(res, exclusion.New(patterns), resolver.Mode(cfg.Decision.Mode), cfg.Decision.Policy, cfg.Output.Workers, logger)

	report, runErr := eng.Run(ctx, cfg.Library.Path)
	if report != nil {
		renderReport(cmd, cfg, report)
	}
	if runErr != nil {
		return runErr
	}

	if apply {
		return applyRenames(cmd, report)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "dry run; re-run with --apply to carry out renames")
	return nil
}

func renderReport(cmd *cobra.Command, cfg *config.Config, report *engine.Report) {
	out := cmd.OutOrStdout()
	colored := false
	if f, ok := out.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	output.WriteTable(out, report, colored)

	if cfg.Output.ReportPath != "" {
		if err := output.WriteJSONLFile(cfg.Output.ReportPath, report); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "writing report:", err)
		} else {
			fmt.Fprintln(out, "report written to", cfg.Output.ReportPath)
		}
	}
}

// applyRenames carries out the rename decisions of a completed run. Each
// rename is independent; one failure does not stop the rest.
func applyRenames(cmd *cobra.Command, report *engine.Report) error {
	var failed int
	for _, r := range report.Results {
		if r.Decision != resolver.DecisionRename || r.ProposedName == "" {
			continue
		}
		target := filepath.Join(filepath.Dir(r.Folder.Path), r.ProposedName)
		if _, err := os.Stat(target); err == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %q: target %q already exists\n", r.Folder.Name, r.ProposedName)
			failed++
			continue
		}
		if err := os.Rename(r.Folder.Path, target); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "renaming %q: %v\n", r.Folder.Name, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "renamed %q -> %q\n", r.Folder.Name, r.ProposedName)
	}
	if failed > 0 {
		return fmt.Errorf("%d renames failed", failed)
	}
	return nil
}
