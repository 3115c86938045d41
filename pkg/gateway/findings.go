package gateway

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
	SeverityInfo   Severity = "INFO"
)

// Finding is one audit observation against a single method, authorizer or
// user pool.
type Finding struct {
	Account  string   `json:"account"`
	Region   string   `json:"region"`
	ApiID    string   `json:"api_id"`
	ApiName  string   `json:"api_name"`
	Stage    string   `json:"stage,omitempty"`
	Path     string   `json:"path"`
	Method   string   `json:"method"`
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Detail   string   `json:"detail"`
}

type FindingSet []Finding

// Sort orders findings by API ID, path, method and rule so repeated runs
// against the same account produce identical reports.
func (s FindingSet) Sort() {
	sort.Slice(s, func(i, j int) bool {
		if s[i].ApiID != s[j].ApiID {
			return s[i].ApiID < s[j].ApiID
		}
		if s[i].Path != s[j].Path {
			return s[i].Path < s[j].Path
		}
		if s[i].Method != s[j].Method {
			return s[i].Method < s[j].Method
		}
		return s[i].Rule < s[j].Rule
	})
}

func (s FindingSet) CSVHeader() []string {
	return []string{"account", "region", "api_id", "api_name", "stage", "path", "method", "severity", "rule", "detail"}
}

func (s FindingSet) CSVRows() [][]string {
	rows := make([][]string, 0, len(s))
	for _, f := range s {
		rows = append(rows, []string{
			f.Account, f.Region, f.ApiID, f.ApiName, f.Stage,
			f.Path, f.Method, string(f.Severity), f.Rule, f.Detail,
		})
	}
	return rows
}

func (s FindingSet) SeverityCounts() map[Severity]int {
	return lo.CountValuesBy(s, func(f Finding) Severity { return f.Severity })
}

// Report is the complete result of one audit run.
type Report struct {
	RunID       string           `json:"run_id"`
	Account     string           `json:"account"`
	Region      string           `json:"region"`
	GeneratedAt time.Time        `json:"generated_at"`
	ApisAudited int              `json:"apis_audited"`
	Counts      map[Severity]int `json:"severity_counts"`
	Warnings    []string         `json:"warnings,omitempty"`
	Findings    FindingSet       `json:"findings"`
}

func NewReport(account, region string, apisAudited int, warnings []string, findings FindingSet) Report {
	findings.Sort()
	return Report{
		RunID:       uuid.New().String(),
		Account:     account,
		Region:      region,
		GeneratedAt: time.Now().UTC(),
		ApisAudited: apisAudited,
		Counts:      findings.SeverityCounts(),
		Warnings:    warnings,
		Findings:    findings,
	}
}
