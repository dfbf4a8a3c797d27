package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PRICING_MAX_TEAM_COUNT", "")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuote_Text(t *testing.T) {
	out, err := run(t, "quote", "--team", "5", "--cycle", "yearly")
	require.NoError(t, err)

	assert.Contains(t, out, "5 seats, billed yearly")
	assert.Contains(t, out, "Base")
	assert.Contains(t, out, "$1,071/yr")
	assert.Contains(t, out, "$18/mo per user")
	assert.Contains(t, out, "$89/mo equivalent, you save $189")
	assert.Contains(t, out, "Premium")
}

func TestQuote_JSON(t *testing.T) {
	out, err := run(t, "quote", "--team", "20", "--json")
	require.NoError(t, err)

	var q pricing.Quote
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, "plus", q.Result.Plan.ID)
	assert.Equal(t, 630, q.Result.TotalPrice)
	assert.Len(t, q.Plans, 3)
}

func TestQuote_ContactSales(t *testing.T) {
	out, err := run(t, "quote", "--team", "51")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact sales")
	assert.NotContains(t, out, "per user")
}

func TestQuote_MaxTeamFlag(t *testing.T) {
	out, err := run(t, "--max-team", "10", "quote", "--team", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact sales")
}

func TestQuote_InvalidCycle(t *testing.T) {
	_, err := run(t, "quote", "--cycle", "weekly")
	require.Error(t, err)
}

func TestRoot_RejectsInvalidMaxTeam(t *testing.T) {
	_, err := run(t, "--max-team", "0", "plans")
	require.Error(t, err)
}

func TestPlans(t *testing.T) {
	out, err := run(t, "plans")
	require.NoError(t, err)

	assert.Contains(t, out, "Base")
	assert.Contains(t, out, "Plus")
	assert.Contains(t, out, "Premium")
	assert.Contains(t, out, "up to 5 seats")
	assert.Contains(t, out, "unlimited seats")
	assert.Contains(t, out, "Yearly billing saves 15%")
	assert.Contains(t, out, "Teams above 50 seats")
	assert.NotContains(t, out, "Free")

	out, err = run(t, "plans", "--free")
	require.NoError(t, err)
	assert.Contains(t, out, "Free")
}

func TestSheet_CSVToStdout(t *testing.T) {
	out, err := run(t, "--max-team", "2", "sheet")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+2*2*3)
	assert.True(t, strings.HasPrefix(lines[0], "Team Size,Billing Cycle"))
}

func TestSheet_XLSXToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.xlsx")

	out, err := run(t, "--max-team", "2", "sheet", "--format", "xlsx", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 12 rows")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Prices")
	require.NoError(t, err)
	assert.Len(t, rows, 13)
	assert.Equal(t, "Team Size", rows[0][0])
}

func TestSheet_UnknownFormat(t *testing.T) {
	_, err := run(t, "sheet", "--format", "pdf")
	require.Error(t, err)
}
