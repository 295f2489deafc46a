package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vsinha/qadash/pkg/application/services/dashboard"
	"github.com/vsinha/qadash/pkg/application/services/filter"
	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/generator"
	"github.com/vsinha/qadash/pkg/infrastructure/repositories/memory"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	today := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	// Load six months of synthetic batches
	repo := memory.NewBatchRepository()
	gen := generator.NewGenerator(generator.Config{
		Seed:        42,
		Today:       today,
		HistoryDays: 200,
		SpikeRate:   0.05,
	})
	if err := gen.Populate(repo); err != nil {
		fmt.Printf("❌ Failed to generate batches: %v\n", err)
		return
	}

	controller := filter.NewController(
		filter.WithClock(func() time.Time { return today }),
		filter.WithLogger(logger),
	)
	controller.Start()
	service := dashboard.NewService(repo, controller, logger)

	fmt.Println("🍪 Biscuit QA dashboard")
	fmt.Printf("Records loaded: %d\n", repo.Count())
	fmt.Println()

	// Narrow to two vendors over the last three months
	controller.SetSelectedVendors([]string{"Vendor A", "Vendor C"})
	controller.SetDateOption(entities.LastThreeMonths)

	scalar, err := service.ComputeScalar("oven_temperature")
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Printf("📊 %s (last 3 months): %.2f\n", scalar.Label, scalar.Value)

	byVendor, _ := service.ComputeByVendor("oven_temperature")
	for _, point := range byVendor {
		fmt.Printf("  %-10s %.2f\n", point.Vendor, point.Value)
	}
	fmt.Println()

	// Health across every category
	fmt.Println("🩺 Health index:")
	for _, h := range service.HealthIndex() {
		fmt.Printf("  %-18s %3d%% (%d/%d in range)\n", h.Name, h.Index, h.InRange, h.Tracked)
	}
	fmt.Println()

	alerts := service.CriticalAlerts()
	fmt.Printf("🚨 Critical alerts: %d\n", len(alerts))
	for _, a := range alerts {
		fmt.Printf("  [%s] %s %s: %.2f (range %g-%g)\n", a.Severity, a.Vendor, a.Label, a.Value, a.Min, a.Max)
	}
	fmt.Println()

	// Drill into one day and list its outliers
	day := today.AddDate(0, 0, -3)
	controller.SetDrilldownDate(&day)
	fmt.Printf("🔍 Drill-down %s:\n", day.Format(entities.DateLayout))
	for _, detail := range service.ComputeDrilldown() {
		marker := "✅"
		if detail.HasOutlier {
			marker = "⚠️"
		}
		fmt.Printf("  %s %s\n", marker, detail.BatchID)
		for _, m := range detail.Metrics {
			if m.Outlier {
				fmt.Printf("      %s: %.2f vs %.2f\n", m.Label, m.Value, m.Baseline)
			}
		}
	}
}
