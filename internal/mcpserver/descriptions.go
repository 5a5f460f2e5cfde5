package mcpserver

// Tool descriptions with interpretation guidance for LLMs. Each one says
// what the tool measures, when to reach for it, and how to read the
// numbers.

func describeDIT() string {
	return `Computes the depth of inheritance tree (DIT) of one class in a class hierarchy model.

USE WHEN:
- Checking how far a class sits below its root ancestor
- Judging how much inherited behaviour a reader must understand before changing a class
- Reviewing a proposed subclass before adding another inheritance level

INTERPRETING RESULTS:
- DIT 0: the class is a root (no parent)
- DIT 1-3: typical for application code
- DIT > 5: deep hierarchy, behaviour is spread over many ancestors; consider composition
- An inheritance cycle in the model is reported as an error naming the cycle

METRICS RETURNED:
- class, dit
- ancestors: the parent chain, nearest first`
}

func describeNOC() string {
	return `Counts the direct subclasses (NOC) of one class in a class hierarchy model.

USE WHEN:
- Estimating the blast radius of changing a base class
- Finding abstractions that many classes specialise directly
- Spotting classes that are never extended

INTERPRETING RESULTS:
- NOC 0: leaf class
- NOC > 6: wide hierarchy, changes to this class affect many subclasses at once
- Only direct children count; grandchildren are not included

METRICS RETURNED:
- class, noc
- children: names of the direct subclasses, sorted`
}

func describeMOOD() string {
	return `Computes the MOOD inheritance and hiding factors of one class: MIF, MHF, AHF and AIF.

USE WHEN:
- Measuring how much of a class's interface comes from its ancestors
- Comparing reuse through inheritance across classes
- Reviewing whether a subclass mostly re-declares what it inherits

INTERPRETING RESULTS:
- MIF: inherited methods / all available methods, between 0 and 1
- AIF: inherited attributes / all available attributes, between 0 and 1
- MIF or AIF of null (undefined): the class has no methods or no attributes at all
- MHF / AHF: counts of inherited methods / attributes the class does not re-declare
- High MIF with low own-method count: thin subclass, check if it earns its place
- Members are matched by name; a re-declared name counts as both own and inherited

METRICS RETURNED:
- class, mif, mhf, ahf, aif (text and markdown also show the raw ratios)`
}

func describePOFClass() string {
	return `Counts how many of a class's own methods are overridden by at least one of its descendants.

USE WHEN:
- Finding base classes whose behaviour is routinely replaced
- Checking whether a class is used polymorphically
- Reviewing the override surface before changing a method signature

INTERPRETING RESULTS:
- 0: no descendant re-declares any method of this class
- Equal to the own-method count: every method is overridden somewhere below
- This is an absolute count, not a ratio; use compute_pof_registry for the corpus ratio

METRICS RETURNED:
- class, pof`
}

func describePOFRegistry() string {
	return `Computes the corpus-wide polymorphism factor (POF) of a class hierarchy model.

USE WHEN:
- Getting one number for how much of the model's override potential is used
- Comparing two versions of a hierarchy
- Summarising polymorphism before a design review

INTERPRETING RESULTS:
- Each method a class introduces opens (children + 1) override slots
- The numerator counts introduced methods that any other class also declares
- 0: no polymorphism; values near 1: heavy use of overriding
- null (undefined): no class introduces a method
- Cycles in the model make the factor fail with an error

METRICS RETURNED:
- pof, numerator, denominator`
}

func describeAnalyze() string {
	return `Computes every hierarchy metric for every class of a model and summarises them.

USE WHEN:
- Getting an overview of a class hierarchy before a refactor
- Ranking classes by depth, width, inheritance or polymorphism
- Finding classes that cross depth or width thresholds

INTERPRETING RESULTS:
- flags: deep_inheritance (DIT above max_dit), wide_hierarchy (NOC above max_noc)
- summary.pof is the corpus polymorphism factor; null when undefined or when a cycle exists
- errors lists classes whose parent chain is cyclic; they are left out of classes
- nod is the number of descendants (all subclasses, transitively)

METRICS RETURNED:
- Per class: dit, noc, nod, mif, aif, mhf, ahf, pof, member counts, flags
- Summary: class and root counts, max/avg DIT and NOC, mean MIF/AIF, POF, flagged classes
- fingerprint: stable hash of the model, changes whenever the hierarchy does`
}
