package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vsinha/qadash/pkg/domain/entities"
	"github.com/vsinha/qadash/pkg/infrastructure/generator"
	"github.com/vsinha/qadash/pkg/infrastructure/repositories/memory"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batches.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	return path
}

func TestLoader_LoadBatches(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		"series,date,vendor,shift,component,value",
		"oven_temperature,2026-05-01,Vendor A,morning,,231.5",
		"raw_material,2026-05-01,Vendor A,morning,flour_moisture,12.1",
		"raw_material,2026-05-01,Vendor A,morning,gluten_strength,31",
		"raw_material,2026-05-01,Vendor B,night,flour_moisture,13",
	}, "\n"))

	batches, err := NewLoader().LoadBatches(path)
	if err != nil {
		t.Fatalf("LoadBatches failed: %v", err)
	}

	oven := batches[entities.OvenTemperatureSeries]
	if len(oven) != 1 || oven[0].Value != 231.5 {
		t.Errorf("Expected one oven record at 231.5, got %+v", oven)
	}

	raw := batches[entities.RawMaterialSeries]
	if len(raw) != 2 {
		t.Fatalf("Expected two composite records, got %d", len(raw))
	}
	if len(raw[0].Components) != 2 || raw[0].Components["gluten_strength"] != 31 {
		t.Errorf("Expected components merged into one record, got %v", raw[0].Components)
	}
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"header only", "series,date,vendor,shift,component,value"},
		{"bad header", "a,b,c,d,e,f\nx,y,z,w,v,u"},
		{"unknown series", "series,date,vendor,shift,component,value\nflavour,2026-05-01,Vendor A,morning,,1"},
		{"bad shift", "series,date,vendor,shift,component,value\noven_temperature,2026-05-01,Vendor A,evening,,1"},
		{"bad value", "series,date,vendor,shift,component,value\noven_temperature,2026-05-01,Vendor A,morning,,hot"},
		{"NaN value", "series,date,vendor,shift,component,value\noven_temperature,2026-05-01,Vendor A,morning,,NaN"},
		{"infinite value", "series,date,vendor,shift,component,value\noven_temperature,2026-05-01,Vendor A,morning,,+Inf"},
		{"component on scalar series", "series,date,vendor,shift,component,value\noven_temperature,2026-05-01,Vendor A,morning,temperature,230"},
		{"missing component on composite series", "series,date,vendor,shift,component,value\nbaking,2026-05-01,Vendor A,morning,,12"},
		{"unknown component", "series,date,vendor,shift,component,value\nbaking,2026-05-01,Vendor A,morning,glaze_thickness,1"},
		{"duplicate component", "series,date,vendor,shift,component,value\nbaking,2026-05-01,Vendor A,morning,baking_time,1\nbaking,2026-05-01,Vendor A,morning,baking_time,2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader().LoadBatches(writeFile(t, tt.content)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestWriteBatches_ReportsCreateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "batches.csv")
	if _, err := WriteBatches(path, nil); err == nil {
		t.Error("Expected an error for an unwritable path")
	}
}

func TestWriteThenLoad(t *testing.T) {
	config := generator.DefaultConfig()
	config.Seed = 3
	config.Today = time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	config.HistoryDays = 5

	generated, err := generator.NewGenerator(config).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "batches.csv")
	if _, err := WriteBatches(path, generated); err != nil {
		t.Fatalf("WriteBatches failed: %v", err)
	}

	repo := memory.NewBatchRepository()
	if err := NewLoader().LoadInto(path, repo); err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}

	expected := 0
	for _, records := range generated {
		expected += len(records)
	}
	if repo.Count() != expected {
		t.Errorf("Expected %d records, got %d", expected, repo.Count())
	}

	baking, _ := repo.GetRecords(entities.BakingSeries)
	original := generated[entities.BakingSeries][0]
	if baking[0].Components["baking_time"] != original.Components["baking_time"] {
		t.Errorf("Expected component values to survive, got %v vs %v", baking[0].Components, original.Components)
	}
}
