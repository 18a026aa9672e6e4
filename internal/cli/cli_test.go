package cli

import (
	"strings"
	"testing"
	"time"
)

func TestNewRootCmdSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := map[string]bool{"scrape": false, "generate": false, "ics": false, "serve": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	for _, name := range []string{"data-dir", "mode", "verbose"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestScrapeRejectsBadFlagsBeforeFetching(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"format", []string{"scrape", "--format", "xml"}, "invalid format"},
		{"sort", []string{"scrape", "--sort", "state"}, "invalid sort"},
		{"range", []string{"scrape", "--range", "bientot"}, "invalid --range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCmd()
			root.SetArgs(tt.args)

			err := root.Execute()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewFilter(t *testing.T) {
	now := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	f, err := newFilter(filterFlags{
		Genre:       "Rock",
		DateRange:   "1-15 novembre",
		HideSoldOut: true,
	}, now)
	if err != nil {
		t.Fatalf("newFilter() error = %v", err)
	}

	if f.Genre != "Rock" || !f.HideSoldOut {
		t.Errorf("flags not carried over: %+v", f)
	}
	if f.DateFrom == nil || f.DateFrom.Format("02.01.06") != "01.11.25" {
		t.Errorf("DateFrom = %v, want 01.11.25", f.DateFrom)
	}
	if f.DateTo == nil || f.DateTo.Format("02.01.06") != "15.11.25" {
		t.Errorf("DateTo = %v, want 15.11.25", f.DateTo)
	}
}

func TestNewFilterEmpty(t *testing.T) {
	f, err := newFilter(filterFlags{}, time.Now())
	if err != nil {
		t.Fatalf("newFilter() error = %v", err)
	}
	if !f.IsEmpty() {
		t.Errorf("expected empty filter, got %s", f)
	}
}
