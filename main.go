package main

import (
	"fmt"

	"context"
	"os"
	"os/signal"
	"syscall"

	"tubetrends/infrastructure/charts"
	youtubeclient "tubetrends/infrastructure/clients/youtube"
	"tubetrends/infrastructure/configuration"
	"tubetrends/infrastructure/logger"
	"tubetrends/infrastructure/storage"
	"tubetrends/interfaces/cli"
	"tubetrends/usecase"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
		os.Exit(2)
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)
	go func() {
		<-interrupt
		logger.GetLogger().Info("Shutdown requested")
		cancel()
	}()

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	if os.Getenv("LOG_FORMAT") == "" {
		logger.SetFormat(configuration.C.Logger.Format)
	}

	store := storage.NewSnapshotStore(configuration.C.App.DataDir)
	renderer := charts.NewRenderer(configuration.C.App.OutputDir)
	analyzer := usecase.NewGrowthAnalyzer(analysisParams())
	reporter := usecase.NewReportUseCase()

	// Fetching needs an API key; analysis of saved snapshots does not, so a
	// missing key only disables the network commands.
	var fetchUseCase usecase.IFetchUseCase
	youtubeRepo, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		APIKey:            configuration.C.YouTube.APIKey,
		PageSize:          configuration.C.YouTube.PageSize,
		RequestsPerSecond: configuration.C.YouTube.RequestsPerSecond,
		MaxRetries:        configuration.C.YouTube.MaxRetries,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("YouTube client not available - fetch commands disabled")
	} else {
		fetchUseCase = usecase.NewFetchUseCase(youtubeRepo, store)
	}

	app := cli.NewApp(fetchUseCase, analyzer, reporter, store, renderer, os.Stdout)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		logger.GetLogger().WithField("error", err).Error("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func analysisParams() usecase.AnalysisParams {
	a := configuration.C.Analysis
	return usecase.AnalysisParams{
		TakeoffThreshold:    a.TakeoffThreshold,
		RollingWindow:       a.RollingWindowMonths,
		RetentionWindow:     a.RetentionWindowMonths,
		MinWindowMonths:     a.MinWindowMonths,
		ExtrapolationWindow: a.ExtrapolationWindowMonths,
	}
}
