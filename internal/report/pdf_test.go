package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ledger/internal/analysis"
	"ledger/internal/core"
)

var generated = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

func sampleSummary() core.Summary {
	return analysis.Summarize([]core.Transaction{
		{Amount: decimal.NewFromInt(1000), Type: core.Income, Category: "Salary", Date: "2024-01-01"},
		{Amount: decimal.NewFromInt(300), Type: core.Expense, Category: "Rent", Date: "2024-01-02"},
		{Amount: decimal.RequireFromString("45.50"), Type: core.Expense, Category: "Food", Date: "2024-01-03"},
	})
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(sampleSummary(), generated)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestBuildPDF_NothingToVisualize(t *testing.T) {
	incomeOnly := analysis.Summarize([]core.Transaction{
		{Amount: decimal.NewFromInt(10), Type: core.Income, Category: "Gift", Date: "2024-01-01"},
	})
	_, err := BuildPDF(incomeOnly, generated)
	require.ErrorIs(t, err, ErrNothingToVisualize)

	_, err = BuildPDF(core.Summary{}, generated)
	require.ErrorIs(t, err, ErrNothingToVisualize)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, WriteFile(path, sampleSummary(), generated))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())

	empty := filepath.Join(dir, "empty.pdf")
	require.ErrorIs(t, WriteFile(empty, core.Summary{}, generated), ErrNothingToVisualize)
	_, err = os.Stat(empty)
	require.True(t, os.IsNotExist(err))
}

func TestWedge(t *testing.T) {
	pts := wedge(50, 50, 10, 0, 90)
	require.Equal(t, 50.0, pts[0].X)
	require.Equal(t, 50.0, pts[0].Y)

	first, last := pts[1], pts[len(pts)-1]
	require.InDelta(t, 50, first.X, 1e-9)
	require.InDelta(t, 40, first.Y, 1e-9)
	require.InDelta(t, 60, last.X, 1e-9)
	require.InDelta(t, 50, last.Y, 1e-9)
	require.Len(t, pts, 1+int(90/pieStep)+1)

	full := wedge(0, 0, 1, 0, 360)
	end := full[len(full)-1]
	require.InDelta(t, 0, end.X, 1e-9)
	require.InDelta(t, -1, end.Y, 1e-9)
	require.Less(t, math.Abs(full[1].X-end.X), 1e-9)
}

func TestPieSpans_SkipsNonPositiveCategories(t *testing.T) {
	sum := analysis.Summarize([]core.Transaction{
		{Amount: decimal.NewFromInt(300), Type: core.Expense, Category: "Rent", Date: "2024-01-02"},
		{Amount: decimal.NewFromInt(100), Type: core.Expense, Category: "Food", Date: "2024-01-03"},
		{Amount: decimal.NewFromInt(-250), Type: core.Expense, Category: "Refund", Date: "2024-01-04"},
	})

	spans := pieSpans(sum.ByCategory)
	require.Len(t, spans, 2)
	require.Equal(t, 0.0, spans[0].from)
	require.InDelta(t, 270, spans[0].to, 1e-9)
	require.InDelta(t, 360, spans[1].to, 1e-9)

	data, err := BuildPDF(sum, generated)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestBuildPDF_OnlyNegativeExpenses(t *testing.T) {
	sum := analysis.Summarize([]core.Transaction{
		{Amount: decimal.NewFromInt(-5), Type: core.Expense, Category: "Refund", Date: "2024-01-04"},
	})
	require.Empty(t, pieSpans(sum.ByCategory))

	_, err := BuildPDF(sum, generated)
	require.ErrorIs(t, err, ErrNothingToVisualize)
}
