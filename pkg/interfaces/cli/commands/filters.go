package commands

import (
	"fmt"
	"strings"

	"github.com/vsinha/qadash/pkg/application/services/filter"
	"github.com/vsinha/qadash/pkg/domain/entities"
)

// FilterFlags are the command-line filter selections. Empty fields keep the defaults.
type FilterFlags struct {
	Vendors    string // comma-separated vendor names
	Shifts     string // comma-separated shifts; "none" selects no shift
	Categories string // comma-separated category names
	DateOption string // label or id, e.g. "last-3-months"
	Start      string // custom range start, YYYY-MM-DD
	End        string // custom range end, YYYY-MM-DD
	Drilldown  string // drill-down day, YYYY-MM-DD
}

// Apply pushes the selections through the controller setters
func (f FilterFlags) Apply(c *filter.Controller) error {
	if f.Vendors != "" {
		c.SetSelectedVendors(splitList(f.Vendors))
	}

	if f.Shifts != "" {
		shifts := make([]entities.Shift, 0, 3)
		if f.Shifts != "none" {
			for _, s := range splitList(f.Shifts) {
				shift, err := entities.ParseShift(s)
				if err != nil {
					return err
				}
				shifts = append(shifts, shift)
			}
		}
		c.SetSelectedShifts(shifts)
	}

	if f.Categories != "" {
		c.SetSelectedCategories(splitList(f.Categories))
	}

	if f.DateOption != "" {
		option, err := entities.ParseDateOption(f.DateOption)
		if err != nil {
			return err
		}
		c.SetDateOption(option)
	}

	if f.Start != "" || f.End != "" {
		r, err := entities.ParseDateRange(f.Start, f.End)
		if err != nil {
			return err
		}
		c.SetCustomDateRange(r)
	}

	if f.Drilldown != "" {
		date, err := entities.ParseDay(f.Drilldown)
		if err != nil {
			return fmt.Errorf("invalid drill-down date: %w", err)
		}
		c.SetDrilldownDate(&date)
	}

	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
