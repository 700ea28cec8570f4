package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hygiene-analyzer/config"
	"hygiene-analyzer/storage"
)

const dataset = `{"FHRSEstablishment":{"EstablishmentCollection":[
	{"FHRSID":1,"BusinessName":"Rose Cafe","BusinessType":"Restaurant/Cafe/Canteen","RatingValue":"5","RatingDate":"2024-03-01T00:00:00","LocalAuthorityName":"Birmingham","AddressLine1":"1 High St"},
	{"FHRSID":2,"BusinessName":"Corner Shop","BusinessType":"Retailers - other","RatingValue":"3","RatingDate":"2023-01-10T00:00:00","LocalAuthorityName":"Solihull"},
	{"FHRSID":3,"BusinessName":"Village Hall","BusinessType":"Other catering premises","RatingValue":"Exempt","RatingDate":"2022-07-04T00:00:00","LocalAuthorityName":"Solihull"}
]}}`

// testEnv writes the dataset and points every output at a temp dir.
func testEnv(t *testing.T) (input, outDir string) {
	t.Helper()
	dir := t.TempDir()
	input = filepath.Join(dir, "FHRS529en-GB.json")
	require.NoError(t, os.WriteFile(input, []byte(dataset), 0o600))

	outDir = filepath.Join(dir, "exports")
	t.Setenv("OUTPUT_DIR", outDir)
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "hygiene.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("METRICS_TEXTFILE", filepath.Join(dir, "hygiene.prom"))
	return input, outDir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCommand(t *testing.T) {
	input, outDir := testEnv(t)

	out, err := execute(t, "", "report", "--input", input, "--seed", "42", "--export", "csv")
	require.NoError(t, err)

	assert.Contains(t, out, "FOOD HYGIENE INSIGHTS")
	assert.Contains(t, out, "Rose Cafe")

	csv, err := os.ReadFile(filepath.Join(outDir, "authority_insights.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csv), "Birmingham,5.00,1,100")
	assert.Contains(t, string(csv), "Solihull,3.00,2,0")

	prom, err := os.ReadFile(os.Getenv("METRICS_TEXTFILE"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "hygiene_establishments 3")
}

func TestReportCommandRejectsUnknownFormat(t *testing.T) {
	input, _ := testEnv(t)
	_, err := execute(t, "", "report", "--input", input, "--export", "pdf")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	input, _ := testEnv(t)
	dir := t.TempDir()

	out, err := execute(t, "", "export", "--input", input, "--seed", "7", "--format", "md,json", "--out", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		filepath.Join(dir, "hygiene_report.md"),
		filepath.Join(dir, "hygiene_report.json"),
	}, lines)
	assert.FileExists(t, lines[0])
	assert.FileExists(t, lines[1])
}

func TestMenuCommand(t *testing.T) {
	input, outDir := testEnv(t)

	out, err := execute(t, "1\n6\n8\n0\n", "menu", "--input", input, "--seed", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Total businesses: 3")
	assert.Contains(t, out, "Birmingham: Avg 5.00, 5-Star: 100%")
	assert.Contains(t, out, "CSV written to "+filepath.Join(outDir, "authority_insights.csv"))
}

func TestInvalidConfigurationFails(t *testing.T) {
	input, _ := testEnv(t)
	t.Setenv("MAX_CONCURRENCY", "0")

	_, err := execute(t, "", "report", "--input", input)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestInputFlagSatisfiesFileMode(t *testing.T) {
	input, _ := testEnv(t)
	t.Setenv("FETCH_MODE", "file")
	t.Setenv("INPUT_FILE", "")

	out, err := execute(t, "", "report", "--input", input, "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Rose Cafe")
}

func TestInputFlagOverridesFetchModeBeforeValidation(t *testing.T) {
	input, _ := testEnv(t)
	t.Setenv("FETCH_MODE", "carrier-pigeon")

	_, err := execute(t, "", "report", "--input", input, "--seed", "3")
	assert.NoError(t, err)
}

func TestHistoryCommand(t *testing.T) {
	input, _ := testEnv(t)

	_, err := execute(t, "", "report", "--input", input, "--seed", "5")
	require.NoError(t, err)

	out, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, input)

	store, err := storage.OpenSQLStore(context.Background(), storage.DriverSQLite, os.Getenv("SQLITE_PATH"))
	require.NoError(t, err)
	runs, err := store.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, runs, 1)
	assert.Contains(t, out, runs[0].ID)

	out, err = execute(t, "", "history", "--run", runs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Birmingham")
	assert.Contains(t, out, "Solihull")

	_, err = execute(t, "", "history", "--run", "missing")
	assert.Error(t, err)
}

func TestHistoryNeedsRunStore(t *testing.T) {
	testEnv(t)
	t.Setenv("STORE_DRIVER", "none")

	_, err := execute(t, "", "history")
	assert.ErrorIs(t, err, config.ErrInvalid)
}
