package metrics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ClassMetrics represents every metric computed for a single class.
type ClassMetrics struct {
	ClassName string `json:"class_name"`
	Parent    string `json:"parent,omitempty"`

	// Depth of Inheritance Tree
	DIT int `json:"dit"`

	// Number of Children (direct subclasses)
	NOC int `json:"noc"`

	// Number of descendants (all subclasses, transitively)
	NOD int `json:"nod"`

	// Method and Attribute Inheritance Factors; nil when undefined
	MIF *float64 `json:"mif"`
	AIF *float64 `json:"aif"`

	// Inherited members not re-declared by the class
	MHF int `json:"mhf"`
	AHF int `json:"ahf"`

	// Own methods overridden by at least one descendant
	POF int `json:"pof"`

	OwnMethods          int `json:"own_methods"`
	InheritedMethods    int `json:"inherited_methods"`
	OwnAttributes       int `json:"own_attributes"`
	InheritedAttributes int `json:"inherited_attributes"`

	// Threshold violations such as "deep_inheritance" or "wide_hierarchy"
	Flags []string `json:"flags,omitempty"`
}

// Flag names attached to ClassMetrics.
const (
	FlagDeepInheritance = "deep_inheritance"
	FlagWideHierarchy   = "wide_hierarchy"
)

// ClassError records a class that could not be measured.
type ClassError struct {
	ClassName string `json:"class_name"`
	Error     string `json:"error"`
}

// Summary provides aggregate hierarchy metrics.
type Summary struct {
	TotalClasses int     `json:"total_classes"`
	RootClasses  int     `json:"root_classes"`
	MaxDIT       int     `json:"max_dit"`
	AvgDIT       float64 `json:"avg_dit"`
	MaxNOC       int     `json:"max_noc"`
	AvgNOC       float64 `json:"avg_noc"`

	// Means over classes whose factor is defined; nil if none is
	AvgMIF *float64 `json:"avg_mif"`
	AvgAIF *float64 `json:"avg_aif"`

	// Corpus-wide polymorphism factor; nil when undefined
	POF *float64 `json:"pof"`

	FlaggedClasses int `json:"flagged_classes"`
}

// Analysis represents the full metric report for a hierarchy.
type Analysis struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Fingerprint string         `json:"fingerprint"`
	Classes     []ClassMetrics `json:"classes"`
	Errors      []ClassError   `json:"errors,omitempty"`
	Summary     Summary        `json:"summary"`
}

// CalculateSummary computes summary statistics from Classes. The corpus
// POF is not derived from rows and is left untouched.
func (a *Analysis) CalculateSummary() {
	pof := a.Summary.POF
	a.Summary = Summary{POF: pof}
	if len(a.Classes) == 0 {
		return
	}

	dits := make([]float64, 0, len(a.Classes))
	nocs := make([]float64, 0, len(a.Classes))
	var mifs, aifs []float64

	for _, cls := range a.Classes {
		dits = append(dits, float64(cls.DIT))
		nocs = append(nocs, float64(cls.NOC))
		if cls.MIF != nil {
			mifs = append(mifs, *cls.MIF)
		}
		if cls.AIF != nil {
			aifs = append(aifs, *cls.AIF)
		}
		if cls.Parent == "" {
			a.Summary.RootClasses++
		}
		if cls.DIT > a.Summary.MaxDIT {
			a.Summary.MaxDIT = cls.DIT
		}
		if cls.NOC > a.Summary.MaxNOC {
			a.Summary.MaxNOC = cls.NOC
		}
		if len(cls.Flags) > 0 {
			a.Summary.FlaggedClasses++
		}
	}

	a.Summary.TotalClasses = len(a.Classes)
	a.Summary.AvgDIT = stat.Mean(dits, nil)
	a.Summary.AvgNOC = stat.Mean(nocs, nil)
	a.Summary.AvgMIF = meanPtr(mifs)
	a.Summary.AvgAIF = meanPtr(aifs)
}

func meanPtr(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := stat.Mean(xs, nil)
	return &m
}

// SortByName sorts classes by name in ascending order.
func (a *Analysis) SortByName() {
	sort.SliceStable(a.Classes, func(i, j int) bool {
		return a.Classes[i].ClassName < a.Classes[j].ClassName
	})
}

// SortByDIT sorts classes by DIT in descending order (deepest inheritance first).
func (a *Analysis) SortByDIT() {
	sort.SliceStable(a.Classes, func(i, j int) bool {
		return a.Classes[i].DIT > a.Classes[j].DIT
	})
}

// SortByNOC sorts classes by NOC in descending order (widest fan-out first).
func (a *Analysis) SortByNOC() {
	sort.SliceStable(a.Classes, func(i, j int) bool {
		return a.Classes[i].NOC > a.Classes[j].NOC
	})
}

// SortByMIF sorts classes by MIF in descending order; undefined values sort last.
func (a *Analysis) SortByMIF() {
	sort.SliceStable(a.Classes, func(i, j int) bool {
		return lessFactor(a.Classes[j].MIF, a.Classes[i].MIF)
	})
}

// SortByPOF sorts classes by overridden-method count in descending order.
func (a *Analysis) SortByPOF() {
	sort.SliceStable(a.Classes, func(i, j int) bool {
		return a.Classes[i].POF > a.Classes[j].POF
	})
}

// Sort applies the named ordering: name, dit, noc, mif or pof. Unknown keys
// sort by name.
func (a *Analysis) Sort(by string) {
	a.SortByName()
	switch by {
	case "dit":
		a.SortByDIT()
	case "noc":
		a.SortByNOC()
	case "mif":
		a.SortByMIF()
	case "pof":
		a.SortByPOF()
	}
}

// lessFactor orders nil below every defined value.
func lessFactor(x, y *float64) bool {
	switch {
	case x == nil:
		return y != nil
	case y == nil:
		return false
	default:
		return *x < *y
	}
}
