package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/mood/pkg/metrics"
)

// FactorString formats an optional ratio, "-" when undefined.
func FactorString(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

// FlagColor colors a threshold flag for terminal output.
func FlagColor(flag string) string {
	switch flag {
	case metrics.FlagDeepInheritance:
		return color.RedString(flag)
	case metrics.FlagWideHierarchy:
		return color.YellowString(flag)
	default:
		return flag
	}
}

func highlightClassCell(header, value string) string {
	if header != "Flags" || value == "" {
		return value
	}
	flags := strings.Split(value, ", ")
	for i, f := range flags {
		flags[i] = FlagColor(f)
	}
	return strings.Join(flags, ", ")
}

var classHeaders = []string{"Class", "Parent", "DIT", "NOC", "NOD", "MIF", "AIF", "MHF", "AHF", "POF", "Flags"}

// NewClassTable lists per-class metrics. top > 0 keeps only the first top
// rows in the current sort order.
func NewClassTable(a *metrics.Analysis, top int) *Table {
	classes := a.Classes
	if top > 0 && top < len(classes) {
		classes = classes[:top]
	}

	rows := make([][]string, 0, len(classes))
	for _, c := range classes {
		rows = append(rows, []string{
			c.ClassName,
			c.Parent,
			strconv.Itoa(c.DIT),
			strconv.Itoa(c.NOC),
			strconv.Itoa(c.NOD),
			FactorString(c.MIF),
			FactorString(c.AIF),
			strconv.Itoa(c.MHF),
			strconv.Itoa(c.AHF),
			strconv.Itoa(c.POF),
			strings.Join(c.Flags, ", "),
		})
	}

	t := NewTable("Classes", classHeaders, rows, nil, classes)
	t.Highlight = highlightClassCell
	return t
}

// NewSummarySection renders the aggregate figures of an analysis.
func NewSummarySection(s metrics.Summary) *Section {
	var b strings.Builder
	fmt.Fprintf(&b, "Classes:          %d (%d roots)\n", s.TotalClasses, s.RootClasses)
	fmt.Fprintf(&b, "DIT:              max %d, avg %.2f\n", s.MaxDIT, s.AvgDIT)
	fmt.Fprintf(&b, "NOC:              max %d, avg %.2f\n", s.MaxNOC, s.AvgNOC)
	fmt.Fprintf(&b, "Mean MIF:         %s\n", FactorString(s.AvgMIF))
	fmt.Fprintf(&b, "Mean AIF:         %s\n", FactorString(s.AvgAIF))
	fmt.Fprintf(&b, "POF (corpus):     %s\n", FactorString(s.POF))
	fmt.Fprintf(&b, "Flagged classes:  %d", s.FlaggedClasses)
	return &Section{Title: "Summary", Content: b.String(), Data: s}
}

// NewAnalysisReport builds the full report printed by "mood analyze".
func NewAnalysisReport(a *metrics.Analysis, top int) *Report {
	data := *a
	if top > 0 && top < len(data.Classes) {
		data.Classes = data.Classes[:top]
	}

	sections := []Renderable{
		NewSummarySection(a.Summary),
		NewClassTable(a, top),
	}
	if len(a.Errors) > 0 {
		rows := make([][]string, len(a.Errors))
		for i, e := range a.Errors {
			rows[i] = []string{e.ClassName, e.Error}
		}
		sections = append(sections, NewTable("Unmeasured classes", []string{"Class", "Error"}, rows, nil, a.Errors))
	}

	return &Report{
		Title:    "Class Hierarchy Analysis",
		Sections: sections,
		Data:     &data,
	}
}

// NewValueSection renders a single named metric value.
func NewValueSection(title, label, value string, data any) *Section {
	return &Section{
		Title:   title,
		Content: fmt.Sprintf("%s: %s", label, value),
		Data:    data,
	}
}

// MOODResult is the serialized form of one class's MOOD factors.
type MOODResult struct {
	Class string   `json:"class"`
	MIF   *float64 `json:"mif"`
	MHF   int      `json:"mhf"`
	AHF   int      `json:"ahf"`
	AIF   *float64 `json:"aif"`
}

// NewMOODTable renders the four MOOD factors of a class with their raw
// ratios.
func NewMOODTable(class string, m metrics.MOOD) *Table {
	ratio := func(f metrics.Factor) string {
		if !f.Defined() {
			return "undefined"
		}
		return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
	}
	rows := [][]string{
		{"MIF", m.MIF.String(), ratio(m.MIF)},
		{"MHF", strconv.Itoa(m.MHF), ""},
		{"AHF", strconv.Itoa(m.AHF), ""},
		{"AIF", m.AIF.String(), ratio(m.AIF)},
	}
	data := MOODResult{Class: class, MIF: m.MIF.Ptr(), MHF: m.MHF, AHF: m.AHF, AIF: m.AIF.Ptr()}
	return NewTable("MOOD factors for "+class, []string{"Factor", "Value", "Ratio"}, rows, nil, data)
}

// DITResult is the serialized depth of one class.
type DITResult struct {
	Class     string   `json:"class"`
	DIT       int      `json:"dit"`
	Ancestors []string `json:"ancestors"`
}

// NewDITSection renders a class depth with its ancestor chain, nearest
// first.
func NewDITSection(class string, ancestors []string) *Section {
	value := strconv.Itoa(len(ancestors))
	if len(ancestors) > 0 {
		value += " (" + strings.Join(append([]string{class}, ancestors...), " -> ") + ")"
	}
	return NewValueSection("Depth of inheritance tree", "DIT("+class+")", value,
		DITResult{Class: class, DIT: len(ancestors), Ancestors: nonNil(ancestors)})
}

// NOCResult is the serialized child count of one class.
type NOCResult struct {
	Class    string   `json:"class"`
	NOC      int      `json:"noc"`
	Children []string `json:"children"`
}

// NewNOCSection renders the direct subclasses of a class.
func NewNOCSection(class string, children []string) *Section {
	value := strconv.Itoa(len(children))
	if len(children) > 0 {
		value += " (" + strings.Join(children, ", ") + ")"
	}
	return NewValueSection("Number of children", "NOC("+class+")", value,
		NOCResult{Class: class, NOC: len(children), Children: nonNil(children)})
}

// POFClassResult is the serialized overridden-method count of one class.
type POFClassResult struct {
	Class string `json:"class"`
	POF   int    `json:"pof"`
}

// NewPOFClassSection renders how many own methods of a class are
// overridden below it.
func NewPOFClassSection(class string, pof int) *Section {
	return NewValueSection("Polymorphism factor", "POF("+class+")", strconv.Itoa(pof),
		POFClassResult{Class: class, POF: pof})
}

// POFRegistryResult is the serialized corpus-wide polymorphism factor.
type POFRegistryResult struct {
	POF         *float64 `json:"pof"`
	Numerator   int      `json:"numerator"`
	Denominator int      `json:"denominator"`
}

// NewPOFRegistrySection renders the corpus polymorphism factor.
func NewPOFRegistrySection(f metrics.Factor) *Section {
	value := f.String()
	if f.Defined() {
		value += fmt.Sprintf(" (%d/%d)", f.Numerator, f.Denominator)
	}
	return NewValueSection("Polymorphism factor", "POF", value,
		POFRegistryResult{POF: f.Ptr(), Numerator: f.Numerator, Denominator: f.Denominator})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
