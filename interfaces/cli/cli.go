package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"tubetrends/domain/dto"
	"tubetrends/domain/model"
	"tubetrends/domain/repository"
	"tubetrends/usecase"
)

// App wires the use cases behind the command-line subcommands.
type App struct {
	fetchUseCase usecase.IFetchUseCase
	analyzer     usecase.IGrowthAnalyzer
	reporter     usecase.IReportUseCase
	store        repository.ISnapshotStore
	charts       repository.IChartRenderer
	out          io.Writer
}

// NewApp creates the CLI application.
func NewApp(
	fetchUseCase usecase.IFetchUseCase,
	analyzer usecase.IGrowthAnalyzer,
	reporter usecase.IReportUseCase,
	store repository.ISnapshotStore,
	charts repository.IChartRenderer,
	out io.Writer,
) *App {
	return &App{
		fetchUseCase: fetchUseCase,
		analyzer:     analyzer,
		reporter:     reporter,
		store:        store,
		charts:       charts,
		out:          out,
	}
}

// Run dispatches a subcommand. args excludes the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return fmt.Errorf("no command given")
	}
	switch args[0] {
	case "fetch":
		return a.runFetch(ctx, args[1:])
	case "visualize":
		return a.runVisualize(args[1:])
	case "compare":
		return a.runCompare(ctx, args[1:])
	case "run":
		return a.runAll(ctx, args[1:])
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (a *App) usage() {
	fmt.Fprint(a.out, `tubetrends - YouTube channel growth analytics

Usage:
  tubetrends fetch --channel <@handle|UC-id>
  tubetrends visualize (--input <snapshot.csv|.json> | --channel <name>)
  tubetrends compare <a.csv> <b.csv> [--name-a N] [--name-b N] [--json out.json]
  tubetrends compare --fetch <@handle-a> <@handle-b> [--json out.json]
  tubetrends run --channel <@handle|UC-id>

fetch      downloads every upload of a channel and saves a CSV/JSON snapshot
visualize  renders the chart set for a saved snapshot
compare    analyzes two snapshots side by side on the months-since-takeoff axis
run        fetch, analyze and visualize in one pass
`)
}

func (a *App) runFetch(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
	channel := flags.String("channel", "", "channel handle (@name) or UC... channel ID")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *channel == "" {
		return fmt.Errorf("fetch: --channel is required")
	}
	if a.fetchUseCase == nil {
		return fmt.Errorf("fetch: YouTube API key not configured, set YOUTUBE_API_KEY")
	}

	result, err := a.fetchUseCase.FetchChannel(ctx, *channel)
	if err != nil {
		return err
	}
	analysis := a.analyzer.AnalyzeChannel(result.Snapshot)
	if err := a.reporter.WriteSummary(a.out, result.Snapshot, &analysis); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nSaved: %s\nSaved: %s\n", result.CSVPath, result.JSONPath)
	return nil
}

func (a *App) runVisualize(args []string) error {
	flags := pflag.NewFlagSet("visualize", pflag.ContinueOnError)
	input := flags.String("input", "", "snapshot file (.csv or .json)")
	channel := flags.String("channel", "", "channel name; uses its most recent snapshot")
	if err := flags.Parse(args); err != nil {
		return err
	}

	path := *input
	if path == "" {
		if *channel == "" {
			return fmt.Errorf("visualize: either --input or --channel is required")
		}
		var err error
		path, err = a.store.LatestSnapshot(*channel)
		if err != nil {
			return err
		}
	}

	snapshot, err := a.store.LoadSnapshot(path)
	if err != nil {
		return err
	}
	analysis := a.analyzer.AnalyzeChannel(snapshot)
	if analysis.Failure != "" {
		return fmt.Errorf("cannot visualize %s: %s", path, analysis.Failure)
	}

	paths, err := a.charts.RenderChannelCharts(snapshot, &analysis)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(a.out, "Chart: %s\n", p)
	}
	return nil
}

func (a *App) runCompare(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("compare", pflag.ContinueOnError)
	fetchLive := flags.Bool("fetch", false, "treat the two arguments as handles and fetch them first")
	nameA := flags.String("name-a", "", "display name override for the first channel")
	nameB := flags.String("name-b", "", "display name override for the second channel")
	jsonOut := flags.String("json", "", "also write the comparison payload as JSON to this path")
	if err := flags.Parse(args); err != nil {
		return err
	}
	rest := flags.Args()
	if len(rest) != 2 {
		return fmt.Errorf("compare: exactly two snapshot files (or two handles with --fetch) required")
	}

	var snapA, snapB *model.ChannelSnapshot
	if *fetchLive {
		if a.fetchUseCase == nil {
			return fmt.Errorf("compare --fetch: YouTube API key not configured, set YOUTUBE_API_KEY")
		}
		resultA, resultB, err := a.fetchUseCase.FetchPair(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		snapA, snapB = resultA.Snapshot, resultB.Snapshot
	} else {
		var err error
		if snapA, err = a.store.LoadSnapshot(rest[0]); err != nil {
			return err
		}
		if snapB, err = a.store.LoadSnapshot(rest[1]); err != nil {
			return err
		}
	}
	if *nameA != "" {
		snapA.Channel = *nameA
	}
	if *nameB != "" {
		snapB.Channel = *nameB
	}

	report := a.analyzer.Compare(snapA, snapB)
	if err := a.reporter.WriteComparison(a.out, &report); err != nil {
		return err
	}

	paths, err := a.charts.RenderComparisonCharts(&report)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(a.out, "Chart: %s\n", p)
	}

	if *jsonOut != "" {
		payload, err := json.MarshalIndent(dto.NewComparisonReportDTO(&report), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal comparison payload: %w", err)
		}
		if err := os.WriteFile(*jsonOut, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write comparison payload: %w", err)
		}
		fmt.Fprintf(a.out, "Report: %s\n", *jsonOut)
	}
	return nil
}

func (a *App) runAll(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	channel := flags.String("channel", "", "channel handle (@name) or UC... channel ID")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *channel == "" {
		return fmt.Errorf("run: --channel is required")
	}
	if a.fetchUseCase == nil {
		return fmt.Errorf("run: YouTube API key not configured, set YOUTUBE_API_KEY")
	}

	result, err := a.fetchUseCase.FetchChannel(ctx, *channel)
	if err != nil {
		return err
	}
	analysis := a.analyzer.AnalyzeChannel(result.Snapshot)
	if err := a.reporter.WriteSummary(a.out, result.Snapshot, &analysis); err != nil {
		return err
	}
	if analysis.Failure != "" {
		return nil
	}
	paths, err := a.charts.RenderChannelCharts(result.Snapshot, &analysis)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(a.out, "Chart: %s\n", p)
	}
	return nil
}
