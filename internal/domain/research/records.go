// Package research defines the records exchanged between the pipeline and
// its computational collaborators, and the collaborator contracts
// themselves.  Records are plain values; none of them carry behaviour beyond
// small derived accessors.
package research

// Compound is one phytochemical or uploaded structure moving through the
// pipeline.
type Compound struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Source          string  `json:"source,omitempty"`
	SMILES          string  `json:"smiles,omitempty"`
	Formula         string  `json:"formula,omitempty"`
	MolecularWeight float64 `json:"molecularWeight,omitempty"`
	InChI           string  `json:"inchi,omitempty"`
	Selected        bool    `json:"selected"`
}

// DatabaseFlags selects which phytochemical databases a lookup consults.
type DatabaseFlags struct {
	IMPPAT   bool `json:"imppat"`
	KNApSAcK bool `json:"knapsack"`
	DrDukes  bool `json:"drdukes"`
}

// Any reports whether at least one database is selected.
func (f DatabaseFlags) Any() bool {
	return f.IMPPAT || f.KNApSAcK || f.DrDukes
}

// Names lists the selected databases in display order.
func (f DatabaseFlags) Names() []string {
	var out []string
	if f.IMPPAT {
		out = append(out, "IMPPAT")
	}
	if f.KNApSAcK {
		out = append(out, "KNApSAcK")
	}
	if f.DrDukes {
		out = append(out, "Dr. Duke's")
	}
	return out
}

// DukesFilters narrows Dr. Duke's results.
type DukesFilters struct {
	WithActivities    bool `json:"withActivities"`
	ExcludeUbiquitous bool `json:"excludeUbiquitous"`
}

// Descriptor holds drug-likeness and toxicity flags for one compound.
type Descriptor struct {
	CompoundID      string  `json:"id"`
	Name            string  `json:"name"`
	MolecularWeight float64 `json:"mw"`
	LogP            float64 `json:"logP"`
	HBD             int     `json:"hbd"`
	HBA             int     `json:"hba"`
	LipinskiPass    bool    `json:"lipinskiPass"`
	NPLikeness      float64 `json:"npLikeness"`
	PAINSFlag       bool    `json:"painsFlag"`
	Toxicophore     bool    `json:"toxicophore"`
}

// StructuralVariant is a candidate replacement for a toxic compound.
type StructuralVariant struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	SMILES          string  `json:"smiles"`
	MolecularWeight float64 `json:"mw"`
	LogP            float64 `json:"logP"`
	Toxicity        string  `json:"toxicity"`
}

// ToxicCandidate groups the variants proposed for one flagged compound.
type ToxicCandidate struct {
	CompoundID     string              `json:"id"`
	Name           string              `json:"name"`
	ToxicGroup     string              `json:"toxicGroup"`
	OriginalSMILES string              `json:"originalSmiles"`
	Variants       []StructuralVariant `json:"variants"`
}

// Variant returns the variant with id, if present.
func (c ToxicCandidate) Variant(id string) (StructuralVariant, bool) {
	for _, v := range c.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return StructuralVariant{}, false
}

// Substitution records the variant chosen for a toxic compound.  Original
// is the flagged compound's name.
type Substitution struct {
	CompoundID string            `json:"id"`
	Original   string            `json:"original"`
	Variant    StructuralVariant `json:"variant"`
}

// AdmetProperty is one predicted ADMET property.
type AdmetProperty struct {
	Value      string  `json:"value"`
	Risk       string  `json:"risk"`
	Confidence float64 `json:"confidence"`
}

// Risk levels reported by ADMET prediction.
const (
	RiskLow      = "Low"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
)

// AdmetResult is the ADMET profile of a single compound.
type AdmetResult struct {
	CompoundID   string        `json:"id"`
	Name         string        `json:"name"`
	Absorption   AdmetProperty `json:"absorption"`
	Distribution AdmetProperty `json:"distribution"`
	Metabolism   AdmetProperty `json:"metabolism"`
	Excretion    AdmetProperty `json:"excretion"`
	Toxicity     AdmetProperty `json:"toxicity"`
	Selected     bool          `json:"selected"`
}

// Properties returns the five properties in ADMET order.
func (r AdmetResult) Properties() []AdmetProperty {
	return []AdmetProperty{r.Absorption, r.Distribution, r.Metabolism, r.Excretion, r.Toxicity}
}

// TargetHit is a predicted compound-target interaction.
type TargetHit struct {
	ID          string  `json:"id"`
	Compound    string  `json:"compound"`
	Target      string  `json:"target"`
	Probability float64 `json:"probability"`
	Source      string  `json:"source"`
}

// DockingEngine describes an available docking backend.
type DockingEngine struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Speed       string `json:"speed"`
	Accuracy    string `json:"accuracy"`
}

// DockingResult is the outcome of one compound-target-engine job.  Lower
// scores are better.
type DockingResult struct {
	ID            string  `json:"id"`
	Compound      string  `json:"compound"`
	Target        string  `json:"target"`
	Engine        string  `json:"engine"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank"`
	BindingEnergy float64 `json:"binding_energy"`
}

// NetworkRequest parameterises a network pharmacology build.
type NetworkRequest struct {
	Plants    []string `json:"plants"`
	Compounds []string `json:"compounds"`
	Targets   []string `json:"targets"`
	Threshold float64  `json:"threshold"`
}

// Node kinds in a NetworkGraph.
const (
	NodePlant    = "plant"
	NodeCompound = "compound"
	NodeTarget   = "target"
)

// NetworkNode is a vertex of the interaction graph.
type NetworkNode struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// NetworkEdge links two nodes with a confidence weight.
type NetworkEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// HubTarget is a highly connected target in the graph.
type HubTarget struct {
	Target      string   `json:"target"`
	Degree      int      `json:"degree"`
	Betweenness float64  `json:"betweenness"`
	Pathways    []string `json:"pathways"`
}

// PathwayEnrichment is one enriched pathway.
type PathwayEnrichment struct {
	Pathway    string  `json:"pathway"`
	PValue     float64 `json:"pValue"`
	Genes      int     `json:"genes"`
	Enrichment float64 `json:"enrichment"`
}

// NetworkGraph is the result of a network pharmacology build.
type NetworkGraph struct {
	Nodes    []NetworkNode       `json:"nodes"`
	Edges    []NetworkEdge       `json:"edges"`
	Hubs     []HubTarget         `json:"hubs"`
	Pathways []PathwayEnrichment `json:"pathways"`
}
