package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/panbanda/mood/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis(t *testing.T) *metrics.Analysis {
	t.Helper()
	reg, err := hierarchy.Build([]hierarchy.Declaration{
		{Name: "Base", Methods: []string{"constructor", "baseMethod"}, Attributes: []string{"baseAttribute"}},
		{Name: "Child1", Extends: "Base", Methods: []string{"constructor", "some", "additionalMethod", "additionalMethod2", "baseMethod"}, Attributes: []string{"childAttribute"}},
		{Name: "Grandchild1", Extends: "Child1", Methods: []string{"anotherMethod", "additionalMethod", "additionalMethod2"}},
		{Name: "Child2", Extends: "Base", Methods: []string{"anotherMethod"}},
		{Name: "Grandchild2", Extends: "Child2", Methods: []string{"extraMethod"}},
	})
	require.NoError(t, err)

	a, err := metrics.New(metrics.WithThresholds(metrics.Thresholds{MaxDIT: 1, MaxNOC: 1})).
		Analyze(context.Background(), reg)
	require.NoError(t, err)
	return a
}

func TestFactorString(t *testing.T) {
	v := 0.25
	assert.Equal(t, "0.250", FactorString(&v))
	assert.Equal(t, "-", FactorString(nil))
}

func TestFlagColorKeepsText(t *testing.T) {
	assert.Contains(t, FlagColor(metrics.FlagDeepInheritance), metrics.FlagDeepInheritance)
	assert.Equal(t, "other", FlagColor("other"))
}

func TestNewClassTable(t *testing.T) {
	a := sampleAnalysis(t)

	table := NewClassTable(a, 0)
	require.Len(t, table.Rows, 5)
	assert.Equal(t, classHeaders, table.Headers)

	byName := map[string][]string{}
	for _, row := range table.Rows {
		byName[row[0]] = row
	}
	assert.Equal(t, []string{"Child1", "Base", "1", "1", "1", "0.250", "0.500", "0", "1", "2", ""}, byName["Child1"])
	assert.Equal(t, "deep_inheritance", byName["Grandchild1"][10])
	assert.Equal(t, "wide_hierarchy", byName["Base"][10])

	top := NewClassTable(a, 2)
	assert.Len(t, top.Rows, 2)
	assert.Len(t, top.RenderData(), 2)
}

func TestNewAnalysisReportFormats(t *testing.T) {
	a := sampleAnalysis(t)
	report := NewAnalysisReport(a, 3)

	var buf bytes.Buffer
	require.NoError(t, NewWriterFormatter(&buf, FormatText, false).Output(report))
	text := buf.String()
	assert.Contains(t, text, "Class Hierarchy Analysis")
	assert.Contains(t, text, "Classes:          5 (1 roots)")
	assert.Contains(t, text, "POF (corpus):     0.385")
	assert.Contains(t, text, "Flagged classes:  3")

	buf.Reset()
	require.NoError(t, NewWriterFormatter(&buf, FormatJSON, false).Output(report))
	var decoded struct {
		Fingerprint string           `json:"fingerprint"`
		Classes     []map[string]any `json:"classes"`
		Summary     map[string]any   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Classes, 3, "top limits serialized rows")
	assert.EqualValues(t, 5, decoded.Summary["total_classes"], "summary covers every class")
	assert.NotEmpty(t, decoded.Fingerprint)
	assert.Len(t, a.Classes, 5, "report must not truncate the caller's analysis")

	buf.Reset()
	require.NoError(t, NewWriterFormatter(&buf, FormatMarkdown, false).Output(report))
	assert.Contains(t, buf.String(), "# Class Hierarchy Analysis")
	assert.Contains(t, buf.String(), "| Class | Parent | DIT |")

	buf.Reset()
	require.NoError(t, NewWriterFormatter(&buf, FormatTOON, false).Output(report))
	assert.Contains(t, buf.String(), "class_name")
}

func TestNewAnalysisReportErrors(t *testing.T) {
	a := &metrics.Analysis{
		Errors: []metrics.ClassError{{ClassName: "A", Error: `inheritance cycle at "A": A -> B -> A`}},
	}
	report := NewAnalysisReport(a, 0)
	require.Len(t, report.Sections, 3)

	var buf bytes.Buffer
	require.NoError(t, report.RenderMarkdown(&buf))
	assert.Contains(t, buf.String(), "## Unmeasured classes")
	assert.Contains(t, buf.String(), "inheritance cycle")
}

func TestNewMOODTable(t *testing.T) {
	m := metrics.MOOD{MIF: metrics.NewFactor(4, 5), MHF: 2, AHF: 2, AIF: metrics.Undefined}
	table := NewMOODTable("Grandchild1", m)

	assert.Equal(t, []string{"MIF", "0.800", "4/5"}, table.Rows[0])
	assert.Equal(t, []string{"AIF", "undefined", "undefined"}, table.Rows[3])

	raw, err := json.Marshal(table.RenderData())
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":"Grandchild1","mif":0.8,"mhf":2,"ahf":2,"aif":null}`, string(raw))
}

func TestNewValueSection(t *testing.T) {
	s := NewValueSection("Depth of inheritance", "DIT(Grandchild1)", "2", map[string]any{"dit": 2})

	var buf bytes.Buffer
	require.NoError(t, s.RenderText(&buf, false))
	assert.Contains(t, buf.String(), "DIT(Grandchild1): 2")
	assert.Equal(t, map[string]any{"dit": 2}, s.RenderData())
}

func TestSingleMetricSections(t *testing.T) {
	tests := []struct {
		name     string
		section  *Section
		wantText string
		wantJSON string
	}{
		{
			name:     "dit",
			section:  NewDITSection("Grandchild1", []string{"Child1", "Base"}),
			wantText: "DIT(Grandchild1): 2 (Grandchild1 -> Child1 -> Base)",
			wantJSON: `{"class":"Grandchild1","dit":2,"ancestors":["Child1","Base"]}`,
		},
		{
			name:     "dit_root",
			section:  NewDITSection("Base", nil),
			wantText: "DIT(Base): 0",
			wantJSON: `{"class":"Base","dit":0,"ancestors":[]}`,
		},
		{
			name:     "noc",
			section:  NewNOCSection("Base", []string{"Child1", "Child2"}),
			wantText: "NOC(Base): 2 (Child1, Child2)",
			wantJSON: `{"class":"Base","noc":2,"children":["Child1","Child2"]}`,
		},
		{
			name:     "pof_class",
			section:  NewPOFClassSection("Child1", 2),
			wantText: "POF(Child1): 2",
			wantJSON: `{"class":"Child1","pof":2}`,
		},
		{
			name:     "pof_registry",
			section:  NewPOFRegistrySection(metrics.NewFactor(5, 13)),
			wantText: "POF: 0.385 (5/13)",
			wantJSON: `{"pof":0.38461538461538464,"numerator":5,"denominator":13}`,
		},
		{
			name:     "pof_registry_undefined",
			section:  NewPOFRegistrySection(metrics.Undefined),
			wantText: "POF: undefined",
			wantJSON: `{"pof":null,"numerator":0,"denominator":0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.section.RenderText(&buf, false))
			assert.Contains(t, buf.String(), tt.wantText)

			raw, err := json.Marshal(tt.section.RenderData())
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(raw))
		})
	}
}
