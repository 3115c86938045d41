package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindingSetSort(t *testing.T) {
	findings := FindingSet{
		{ApiID: "b", Path: "/x", Method: "GET", Rule: "open-method"},
		{ApiID: "a", Path: "/y", Method: "GET", Rule: "open-method"},
		{ApiID: "a", Path: "/x", Method: "POST", Rule: "open-method"},
		{ApiID: "a", Path: "/x", Method: "GET", Rule: "open-method"},
		{ApiID: "a", Path: "/x", Method: "GET", Rule: "api-key-only"},
	}

	findings.Sort()

	want := []struct{ apiID, path, method, rule string }{
		{"a", "/x", "GET", "api-key-only"},
		{"a", "/x", "GET", "open-method"},
		{"a", "/x", "POST", "open-method"},
		{"a", "/y", "GET", "open-method"},
		{"b", "/x", "GET", "open-method"},
	}
	require.Len(t, findings, len(want))
	for i, w := range want {
		assert.Equal(t, w.apiID, findings[i].ApiID, i)
		assert.Equal(t, w.path, findings[i].Path, i)
		assert.Equal(t, w.method, findings[i].Method, i)
		assert.Equal(t, w.rule, findings[i].Rule, i)
	}
}

func TestFindingSetCSV(t *testing.T) {
	findings := FindingSet{{
		Account:  "123456789012",
		Region:   "us-east-1",
		ApiID:    "abc123",
		ApiName:  "billing-api",
		Stage:    "prod",
		Path:     "/invoices",
		Method:   "GET",
		Severity: SeverityHigh,
		Rule:     "open-method",
		Detail:   "method is callable without authorization or an API key",
	}}

	header := findings.CSVHeader()
	rows := findings.CSVRows()
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(header))
	assert.Equal(t, "account", header[0])
	assert.Equal(t, "123456789012", rows[0][0])
	assert.Equal(t, "HIGH", rows[0][7])
	assert.Equal(t, "open-method", rows[0][8])
}

func TestSeverityCounts(t *testing.T) {
	findings := FindingSet{
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityLow},
		{Severity: SeverityInfo},
	}
	assert.Equal(t, map[Severity]int{
		SeverityHigh: 2,
		SeverityLow:  1,
		SeverityInfo: 1,
	}, findings.SeverityCounts())
}

func TestNewReport(t *testing.T) {
	findings := FindingSet{
		{ApiID: "b", Severity: SeverityHigh, Rule: "open-method"},
		{ApiID: "a", Severity: SeverityLow, Rule: "open-cors"},
	}

	report := NewReport("123456789012", "us-east-1", 2, []string{"one warning"}, findings)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "123456789012", report.Account)
	assert.Equal(t, "us-east-1", report.Region)
	assert.Equal(t, 2, report.ApisAudited)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, []string{"one warning"}, report.Warnings)
	assert.Equal(t, 1, report.Counts[SeverityHigh])

	// Findings come out sorted.
	require.Len(t, report.Findings, 2)
	assert.Equal(t, "a", report.Findings[0].ApiID)
}
