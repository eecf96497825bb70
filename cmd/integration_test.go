package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataconfig-cli/internal/columns"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags clears values and Changed state that stick to package-level
// flag variables across Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

func setupHome(t *testing.T) string {
	t.Helper()
	// Use a temp HOME to isolate config and sessions
	home := t.TempDir()
	t.Setenv("HOME", home)
	csv := "date,revenue,cost,region,channel\n2024-01-01,100,40,north,web\n2024-01-02,120,50,south,store\n"
	if err := os.WriteFile(filepath.Join(home, "sales.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return home
}

type exported struct {
	DateColumn string `json:"date_column"`
	Metrics    []struct {
		Column      string `json:"column"`
		Aggregation string `json:"aggregation"`
	} `json:"metrics"`
	SupportingMetrics []struct {
		Column      string `json:"column"`
		Aggregation string `json:"aggregation"`
	} `json:"supporting_metrics"`
	Dimensions []string `json:"dimensions"`
	DateRange  struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"date_range"`
	CompareRange struct {
		From string `json:"from"`
	} `json:"compare_range"`
}

func TestCLI_Init_Select_Range_Export(t *testing.T) {
	home := setupHome(t)

	out := runCmd(t, "init", "q1", filepath.Join(home, "sales.csv"), "-d", "integration test")
	if !strings.Contains(out, "5 columns, 2 rows") {
		t.Fatalf("init output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".dataconfig", "sessions", "q1", "session.json")); err != nil {
		t.Fatalf("session.json missing: %v", err)
	}

	runCmd(t, "select", "-s", "q1", "date-column", "date")
	runCmd(t, "select", "-s", "q1", "metric", "revenue")
	runCmd(t, "select", "-s", "q1", "aggregation", "revenue", "distinct")
	runCmd(t, "select", "-s", "q1", "supporting-metrics", "cost")
	runCmd(t, "select", "-s", "q1", "dimensions", "region", "channel")
	runCmd(t, "range", "-s", "q1", "--from", "2024-01-01", "--to", "2024-03-31")
	runCmd(t, "range", "-s", "q1", "--compare", "--from", "2023-10-01")

	exportPath := filepath.Join(home, "selection.json")
	runCmd(t, "export", "-s", "q1", "--format", "json", "-o", exportPath)
	b, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var sel exported
	if err := json.Unmarshal(b, &sel); err != nil {
		t.Fatalf("decode export: %v\n%s", err, b)
	}
	if sel.DateColumn != "date" {
		t.Fatalf("date_column = %q", sel.DateColumn)
	}
	if len(sel.Metrics) != 1 || sel.Metrics[0].Column != "revenue" || sel.Metrics[0].Aggregation != "distinct" {
		t.Fatalf("metrics = %+v", sel.Metrics)
	}
	if len(sel.SupportingMetrics) != 1 || sel.SupportingMetrics[0].Aggregation != "sum" {
		t.Fatalf("supporting = %+v", sel.SupportingMetrics)
	}
	if strings.Join(sel.Dimensions, ",") != "region,channel" {
		t.Fatalf("dimensions = %v", sel.Dimensions)
	}
	if !strings.HasPrefix(sel.DateRange.To, "2024-03-31") || !strings.HasPrefix(sel.CompareRange.From, "2023-10-01") {
		t.Fatalf("ranges = %+v / %+v", sel.DateRange, sel.CompareRange)
	}

	yml := runCmd(t, "export", "-s", "q1")
	if !strings.Contains(yml, "date_column: date") || !strings.Contains(yml, "aggregation: distinct") {
		t.Fatalf("yaml export:\n%s", yml)
	}

	show := runCmd(t, "show", "-s", "q1")
	for _, want := range []string{"Session q1", "aggregation:revenue", "aggregation:cost", "Distinct Count"} {
		if !strings.Contains(show, want) {
			t.Errorf("show output missing %q:\n%s", want, show)
		}
	}

	list := runCmd(t, "list")
	if !strings.Contains(list, "- q1") {
		t.Fatalf("list output: %s", list)
	}
}

func TestCLI_SelectErrorsLeaveSessionUnchanged(t *testing.T) {
	home := setupHome(t)
	runCmd(t, "init", "bad", filepath.Join(home, "sales.csv"))
	runCmd(t, "select", "-s", "bad", "dimensions", "region")

	sessionFile := filepath.Join(home, ".dataconfig", "sessions", "bad", "session.json")
	before, err := os.ReadFile(sessionFile)
	if err != nil {
		t.Fatal(err)
	}

	_, err = execCmd("select", "-s", "bad", "aggregation", "region", "sum")
	if !errors.Is(err, columns.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, err := execCmd("select", "-s", "bad", "chart", "bar"); err == nil {
		t.Fatalf("expected unknown widget error")
	}
	if _, err := execCmd("range", "-s", "bad", "--from", "01/02/2024"); err == nil {
		t.Fatalf("expected invalid date error")
	}

	after, err := os.ReadFile(sessionFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("failed commands must not rewrite the session")
	}

	if _, err := execCmd("init", "bad", filepath.Join(home, "sales.csv")); err == nil {
		t.Fatalf("expected error re-initializing an existing session")
	}
}

func TestCLI_ConfigSetAndPreview(t *testing.T) {
	home := setupHome(t)
	runCmd(t, "config", "set", "render_style", "markdown")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "render_style: markdown") {
		t.Fatalf("config show: %s", out)
	}
	if _, err := execCmd("config", "set", "export_format", "xml"); err == nil {
		t.Fatalf("expected invalid export_format error")
	}

	prev := runCmd(t, "preview", filepath.Join(home, "sales.csv"), "--sample-rows", "1")
	if !strings.Contains(prev, "Date-like columns: date") || !strings.Contains(prev, "north") || strings.Contains(prev, "south") {
		t.Fatalf("preview output:\n%s", prev)
	}
}

func TestCLI_AttachResetsSelection(t *testing.T) {
	home := setupHome(t)
	runCmd(t, "init", "swap", filepath.Join(home, "sales.csv"))
	runCmd(t, "select", "-s", "swap", "metric", "revenue")

	other := filepath.Join(home, "visits.tsv")
	if err := os.WriteFile(other, []byte("day\tvisits\n2024-02-01\t7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := runCmd(t, "attach", "-s", "swap", other)
	if !strings.Contains(out, "visits.tsv") {
		t.Fatalf("attach output: %s", out)
	}

	exportPath := filepath.Join(home, "swap.json")
	runCmd(t, "export", "-s", "swap", "--format", "json", "-o", exportPath)
	b, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatal(err)
	}
	var sel exported
	if err := json.Unmarshal(b, &sel); err != nil {
		t.Fatalf("decode export: %v\n%s", err, b)
	}
	if len(sel.Metrics) != 0 || sel.DateColumn != "" {
		t.Fatalf("selection not reset: %+v", sel)
	}
	runCmd(t, "select", "-s", "swap", "metric", "visits")

	if _, err := execCmd("attach", "-s", "swap", filepath.Join(home, "notes.txt")); err == nil {
		t.Fatalf("expected unsupported upload error")
	}
}

func TestCLI_SessionFromWorkingDirectory(t *testing.T) {
	home := setupHome(t)
	runCmd(t, "init", "here", filepath.Join(home, "sales.csv"))

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(home, ".dataconfig", "sessions", "here")
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	runCmd(t, "select", "date-column", "date")
	b, err := os.ReadFile(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"type": "date"`) {
		t.Fatalf("selection not saved to the enclosing session:\n%s", b)
	}

	if err := os.Chdir(home); err != nil {
		t.Fatal(err)
	}
	if _, err := execCmd("select", "date-column", "date"); err == nil || !strings.Contains(err.Error(), "--session is required") {
		t.Fatalf("expected missing session error, got %v", err)
	}
}

func TestCLI_RejectsSessionNamesOutsideRoot(t *testing.T) {
	home := setupHome(t)
	for _, name := range []string{"../../tmp", "a/b", "..", `x\y`} {
		if _, err := execCmd("init", name, filepath.Join(home, "sales.csv")); err == nil {
			t.Errorf("init %q should fail", name)
		}
		if _, err := execCmd("show", "-s", name); err == nil || !strings.Contains(err.Error(), "invalid session name") {
			t.Errorf("show -s %q: expected invalid name error, got %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(home, "tmp")); !os.IsNotExist(err) {
		t.Fatalf("nothing may be created outside the sessions root")
	}
}
