// Package mockdata provides fixed research catalogs and collaborator
// implementations that serve them.  Nothing here computes chemistry; every
// result is a literal.
package mockdata

import (
	"strconv"

	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/domain/research"
)

// Plant is an entry of the plant picker.
type Plant struct {
	Name   string `json:"name"`
	Common string `json:"common"`
}

var plants = []Plant{
	{Name: "Curcuma longa", Common: "Turmeric"},
	{Name: "Withania somnifera", Common: "Ashwagandha"},
	{Name: "Azadirachta indica", Common: "Neem"},
	{Name: "Ocimum sanctum", Common: "Tulsi"},
	{Name: "Tinospora cordifolia", Common: "Guduchi"},
	{Name: "Bacopa monnieri", Common: "Brahmi"},
	{Name: "Centella asiatica", Common: "Gotu Kola"},
	{Name: "Terminalia chebula", Common: "Haritaki"},
}

var plantParts = []string{"Leaf", "Root", "Bark", "Seed", "Flower", "Fruit", "Whole Plant", "Rhizome"}

var suggestedTags = []string{
	"Ayurveda", "cancer", "inflammation", "diabetes",
	"neuroprotection", "cardiovascular", "antimicrobial", "antioxidant",
}

// Plants lists the selectable plants.
func Plants() []Plant { return append([]Plant(nil), plants...) }

// PlantParts lists the selectable plant parts.
func PlantParts() []string { return append([]string(nil), plantParts...) }

// SuggestedTags lists the tags offered when creating a project.
func SuggestedTags() []string { return append([]string(nil), suggestedTags...) }

// DefaultDatabases is the database selection of a fresh plant form.
func DefaultDatabases() research.DatabaseFlags {
	return research.DatabaseFlags{IMPPAT: true, KNApSAcK: true, DrDukes: true}
}

var phytochemicals = []research.Compound{
	{
		ID: "1", Name: "Curcumin", Source: "PubChem", Selected: true,
		SMILES:  `O=C(\C=C\c1ccc(O)c(OC)c1)CC(=O)\C=C\c1ccc(O)c(OC)c1`,
		Formula: "C21H20O6", MolecularWeight: 368.38,
		InChI: "InChI=1S/C21H20O6/c1-26-20-11-14(5-9-18(20)24)3-7-16(22)13-17(23)8-4-15-6-10-19(25)21(12-15)27-2/h3-12,24-25H,13H2,1-2H3",
	},
	{
		ID: "2", Name: "Demethoxycurcumin", Source: "ChEMBL", Selected: true,
		SMILES:  `COc1cc(\C=C\C(=O)CC(=O)\C=C\c2ccc(O)cc2)ccc1O`,
		Formula: "C20H18O5", MolecularWeight: 338.35,
		InChI: "InChI=1S/C20H18O5/c1-24-19-13-15(7-11-18(19)23)3-9-17(22)14-16(21)8-4-20-10-12-25-20/h3-13,23H,14H2,1H3",
	},
	{
		ID: "3", Name: "Bisdemethoxycurcumin", Source: "PubChem", Selected: true,
		SMILES:  `O=C(\C=C\c1ccc(O)cc1)CC(=O)\C=C\c1ccc(O)cc1`,
		Formula: "C19H16O4", MolecularWeight: 308.33,
		InChI: "InChI=1S/C19H16O4/c20-15-7-1-13(2-8-15)5-11-17(22)12-18(23)10-6-14-3-9-16(21)4-14/h1-11,20-21H,12H2",
	},
	{
		ID: "4", Name: "Turmerone", Source: "COCONUT", Selected: true,
		SMILES:  "CC(C)=CCCC(C)C(=O)C=C(C)C",
		Formula: "C15H22O", MolecularWeight: 218.33,
		InChI: "InChI=1S/C15H22O/c1-12(2)7-6-8-13(3)15(16)10-9-14(4)5/h7,9-10,13H,6,8H2,1-5H3",
	},
	{
		ID: "5", Name: "Ar-turmerone", Source: "PubChem", Selected: true,
		SMILES:  "CC1=C(C(=O)C=C(C1)C)C(C)CCC=C(C)C",
		Formula: "C15H20O", MolecularWeight: 216.32,
		InChI: "InChI=1S/C15H20O/c1-11(2)6-5-7-12(3)15-13(4)8-9-14(16)10-15/h6,8-10,12H,5,7H2,1-4H3",
	},
	{
		ID: "6", Name: "Curlone", Source: "ChEMBL", Selected: false,
		SMILES:  "CC1CCC(=C(C)C)C(=O)C1C(=C)C",
		Formula: "C15H24O", MolecularWeight: 220.35,
		InChI: "InChI=1S/C15H24O/c1-10(2)6-7-12(4)15(16)14-11(3)9-13(5)8-14/h11-14H,1,6-9H2,2-5H3",
	},
	{
		ID: "7", Name: "Zingiberene", Source: "COCONUT", Selected: true,
		SMILES:  "CC1=CCC(C(=C)CCC=C(C)C)CC1",
		Formula: "C15H24", MolecularWeight: 204.35,
		InChI: "InChI=1S/C15H24/c1-13(2)6-5-7-14(3)15-10-8-12(4)9-11-15/h6,8,15H,3,5,7,9-11H2,1-2,4H3",
	},
	{
		ID: "8", Name: "Beta-sesquiphellandrene", Source: "PubChem", Selected: false,
		SMILES:  "CC1=CCC(C(C)(C)C=C)CC1",
		Formula: "C15H24", MolecularWeight: 204.35,
		InChI: "InChI=1S/C15H24/c1-6-15(4,5)14-11-9-13(3)10-12-14/h6,10,14H,1,9,11-12H2,2-5H3",
	},
}

// Phytochemicals returns the phytochemical catalog.
func Phytochemicals() []research.Compound {
	return append([]research.Compound(nil), phytochemicals...)
}

var sampleSmiles = []string{
	"CC(C)Cc1ccc(cc1)C(C)C(O)=O",
	"CC(=O)Oc1ccccc1C(=O)O",
	"CN1C=NC2=C1C(=O)N(C(=O)N2C)C",
	"CC(C)NCC(COc1ccccc1)O",
	"CC1=C(C(=O)N(N1C)c2ccccc2)N(C)CS(=O)(=O)O",
}

// SampleUpload is the five-structure batch offered on the SMILES screen.
func SampleUpload() project.CompoundListData {
	out := make(project.CompoundListData, 0, len(sampleSmiles))
	for i, s := range sampleSmiles {
		out = append(out, research.Compound{
			ID:       "smi-" + strconv.Itoa(i+1),
			Name:     "Compound " + strconv.Itoa(i+1),
			Source:   "upload",
			SMILES:   s,
			Selected: true,
		})
	}
	return out
}

var descriptors = []research.Descriptor{
	{CompoundID: "1", Name: "Curcumin", MolecularWeight: 368.38, LogP: 3.2, HBD: 2, HBA: 6, LipinskiPass: true, NPLikeness: 0.85},
	{CompoundID: "2", Name: "Demethoxycurcumin", MolecularWeight: 338.35, LogP: 2.9, HBD: 2, HBA: 5, LipinskiPass: true, NPLikeness: 0.82},
	{CompoundID: "4", Name: "Turmerone", MolecularWeight: 218.33, LogP: 4.1, HBD: 0, HBA: 1, LipinskiPass: true, NPLikeness: 0.91, Toxicophore: true},
	{CompoundID: "9", Name: "Test Compound A", MolecularWeight: 520.45, LogP: 5.8, HBD: 3, HBA: 8, LipinskiPass: false, NPLikeness: 0.45, PAINSFlag: true, Toxicophore: true},
}

var toxicCandidates = []research.ToxicCandidate{
	{
		CompoundID: "4", Name: "Turmerone", ToxicGroup: "Epoxide",
		OriginalSMILES: "CC(C)=CCCC(C)C(=O)C=C(C)C",
		Variants: []research.StructuralVariant{
			{ID: "v1", Name: "Variant 1", SMILES: "CC(C)=CCCC(C)C(=O)CC(C)C", MolecularWeight: 220.35, LogP: 3.8, Toxicity: "Low"},
			{ID: "v2", Name: "Variant 2", SMILES: "CC(C)=CCCC(C)C(O)C=C(C)C", MolecularWeight: 220.35, LogP: 3.5, Toxicity: "None"},
			{ID: "v3", Name: "Variant 3", SMILES: "CC(C)CCCCC(C)C(=O)C=C(C)C", MolecularWeight: 220.35, LogP: 4.0, Toxicity: "Low"},
		},
	},
	{
		CompoundID: "9", Name: "Test Compound A", ToxicGroup: "Nitro group",
		OriginalSMILES: "CC(C)Cc1ccc(cc1)C(C)C(O)=O",
		Variants: []research.StructuralVariant{
			{ID: "v1", Name: "Variant 1", SMILES: "CC(C)Cc1ccc(cc1)C(C)C(O)=O", MolecularWeight: 190.28, LogP: 3.2, Toxicity: "None"},
			{ID: "v2", Name: "Variant 2", SMILES: "CC(C)Cc1ccc(cc1)CC(O)=O", MolecularWeight: 178.23, LogP: 2.9, Toxicity: "None"},
		},
	},
}

func prop(value, risk string, confidence float64) research.AdmetProperty {
	return research.AdmetProperty{Value: value, Risk: risk, Confidence: confidence}
}

var admetResults = []research.AdmetResult{
	{
		CompoundID: "1", Name: "Curcumin",
		Absorption:   prop("High", research.RiskLow, 0.89),
		Distribution: prop("Moderate", research.RiskLow, 0.82),
		Metabolism:   prop("Extensive", research.RiskModerate, 0.76),
		Excretion:    prop("Rapid", research.RiskLow, 0.85),
		Toxicity:     prop("Low", research.RiskLow, 0.91),
	},
	{
		CompoundID: "2", Name: "Demethoxycurcumin",
		Absorption:   prop("High", research.RiskLow, 0.87),
		Distribution: prop("Good", research.RiskLow, 0.84),
		Metabolism:   prop("Moderate", research.RiskLow, 0.79),
		Excretion:    prop("Normal", research.RiskLow, 0.83),
		Toxicity:     prop("Low", research.RiskLow, 0.88),
	},
	{
		CompoundID: "4", Name: "Turmerone",
		Absorption:   prop("Moderate", research.RiskModerate, 0.75),
		Distribution: prop("Limited", research.RiskModerate, 0.71),
		Metabolism:   prop("Slow", research.RiskModerate, 0.68),
		Excretion:    prop("Slow", research.RiskModerate, 0.73),
		Toxicity:     prop("Moderate", research.RiskModerate, 0.79),
	},
}

const (
	sourceSwiss = "SwissTargetPrediction"
	sourceSEA   = "SEA"
)

var targetHits = []research.TargetHit{
	{ID: "1", Compound: "Curcumin", Target: "COX-2", Probability: 0.92, Source: sourceSwiss},
	{ID: "2", Compound: "Curcumin", Target: "NF-κB", Probability: 0.88, Source: sourceSEA},
	{ID: "3", Compound: "Curcumin", Target: "TNF-α", Probability: 0.85, Source: sourceSwiss},
	{ID: "4", Compound: "Curcumin", Target: "IL-6", Probability: 0.79, Source: sourceSEA},
	{ID: "5", Compound: "Demethoxycurcumin", Target: "COX-2", Probability: 0.87, Source: sourceSwiss},
	{ID: "6", Compound: "Demethoxycurcumin", Target: "NF-κB", Probability: 0.82, Source: sourceSEA},
	{ID: "7", Compound: "Demethoxycurcumin", Target: "STAT3", Probability: 0.76, Source: sourceSwiss},
	{ID: "8", Compound: "Turmerone", Target: "GABAA receptor", Probability: 0.71, Source: sourceSEA},
	{ID: "9", Compound: "Turmerone", Target: "5-HT receptor", Probability: 0.68, Source: sourceSwiss},
	{ID: "10", Compound: "Turmerone", Target: "Acetylcholinesterase", Probability: 0.62, Source: sourceSEA},
}

// TargetHits returns every predicted interaction.
func TargetHits() []research.TargetHit { return append([]research.TargetHit(nil), targetHits...) }

var engines = []research.DockingEngine{
	{ID: "placer", Name: "PLACER", Description: "Ultra-fast AI-powered docking", Speed: "Fast", Accuracy: "High"},
	{ID: "boltz", Name: "BOLTZ", Description: "Deep learning molecular dynamics", Speed: "Medium", Accuracy: "Very High"},
	{ID: "dta", Name: "DTA", Description: "Drug-target affinity prediction", Speed: "Fast", Accuracy: "High"},
	{ID: "pandadock", Name: "PANDADOCK", Description: "Ensemble docking approach", Speed: "Slow", Accuracy: "Very High"},
}

// Engines lists the docking engines.
func Engines() []research.DockingEngine { return append([]research.DockingEngine(nil), engines...) }

var dockingTargets = []string{"COX-2", "NF-κB", "TNF-α", "IL-6", "STAT3"}

// DockingTargets lists the receptors available for docking.
func DockingTargets() []string { return append([]string(nil), dockingTargets...) }

// DefaultDockingSetup is the preselected docking configuration.
func DefaultDockingSetup() project.DockingSetupData {
	return project.DockingSetupData{
		Compounds: []string{"1", "2"},
		Targets:   []string{"COX-2", "NF-κB"},
		Engines:   []string{"placer", "boltz"},
	}
}

var dockingResults = []research.DockingResult{
	{ID: "1", Compound: "Curcumin", Target: "COX-2", Engine: "PLACER", Score: -9.2, Rank: 1, BindingEnergy: -45.3},
	{ID: "2", Compound: "Curcumin", Target: "COX-2", Engine: "BOLTZ", Score: -8.9, Rank: 2, BindingEnergy: -43.8},
	{ID: "3", Compound: "Curcumin", Target: "NF-κB", Engine: "PLACER", Score: -8.5, Rank: 3, BindingEnergy: -41.2},
	{ID: "4", Compound: "Curcumin", Target: "NF-κB", Engine: "BOLTZ", Score: -8.7, Rank: 2, BindingEnergy: -42.1},
	{ID: "5", Compound: "Demethoxycurcumin", Target: "COX-2", Engine: "PLACER", Score: -8.3, Rank: 4, BindingEnergy: -40.5},
	{ID: "6", Compound: "Demethoxycurcumin", Target: "COX-2", Engine: "BOLTZ", Score: -8.1, Rank: 5, BindingEnergy: -39.8},
	{ID: "7", Compound: "Demethoxycurcumin", Target: "NF-κB", Engine: "PLACER", Score: -7.9, Rank: 6, BindingEnergy: -38.4},
	{ID: "8", Compound: "Demethoxycurcumin", Target: "NF-κB", Engine: "BOLTZ", Score: -8.0, Rank: 5, BindingEnergy: -39.1},
}

var hubs = []research.HubTarget{
	{Target: "COX-2", Degree: 12, Betweenness: 0.45, Pathways: []string{"Inflammation", "Arachidonic acid metabolism"}},
	{Target: "NF-κB", Degree: 10, Betweenness: 0.42, Pathways: []string{"Inflammation", "Immune response", "Apoptosis"}},
	{Target: "TNF-α", Degree: 9, Betweenness: 0.38, Pathways: []string{"Inflammation", "Cell signaling", "Apoptosis"}},
	{Target: "STAT3", Degree: 8, Betweenness: 0.35, Pathways: []string{"Cell proliferation", "Immune response"}},
	{Target: "IL-6", Degree: 7, Betweenness: 0.31, Pathways: []string{"Inflammation", "Immune response"}},
}

var pathways = []research.PathwayEnrichment{
	{Pathway: "Inflammatory response", PValue: 0.00012, Genes: 8, Enrichment: 4.2},
	{Pathway: "Apoptosis signaling", PValue: 0.00045, Genes: 6, Enrichment: 3.8},
	{Pathway: "Immune system process", PValue: 0.00089, Genes: 7, Enrichment: 3.5},
	{Pathway: "Cell proliferation", PValue: 0.0015, Genes: 5, Enrichment: 3.1},
	{Pathway: "Oxidative stress response", PValue: 0.0032, Genes: 4, Enrichment: 2.8},
}

// Hubs returns the reference hub targets with their pathway memberships.
func Hubs() []research.HubTarget {
	out := make([]research.HubTarget, len(hubs))
	for i, h := range hubs {
		h.Pathways = append([]string(nil), h.Pathways...)
		out[i] = h
	}
	return out
}

// Pathways returns the enrichment table.
func Pathways() []research.PathwayEnrichment {
	return append([]research.PathwayEnrichment(nil), pathways...)
}

// NetworkOptions is what the network setup screen offers.
type NetworkOptions struct {
	Plants    []string `json:"plants"`
	Compounds []string `json:"compounds"`
	Targets   []string `json:"targets"`
}

// NetworkChoices lists the selectable network inputs.
func NetworkChoices() NetworkOptions {
	return NetworkOptions{
		Plants:    []string{"Curcuma longa", "Withania somnifera", "Azadirachta indica"},
		Compounds: []string{"Curcumin", "Demethoxycurcumin", "Turmerone", "Withanolide A"},
		Targets:   []string{"COX-2", "NF-κB", "TNF-α", "IL-6", "STAT3", "p53"},
	}
}

// DefaultNetworkSetup is the preselected network configuration.
func DefaultNetworkSetup() project.NetworkSetupData {
	return project.NetworkSetupData{
		Plants:    []string{"Curcuma longa"},
		Compounds: []string{"Curcumin", "Demethoxycurcumin"},
		Targets:   []string{"COX-2", "NF-κB", "TNF-α"},
		Threshold: 0.7,
	}
}

// SeedProjects returns the demo projects shown on first start.
func SeedProjects() []project.Project {
	return []project.Project{
		{
			ID:          "1",
			Name:        "Turmeric Anti-inflammatory Study",
			Description: "Investigating curcuminoids for anti-inflammatory properties",
			Objective:   "Identify key compounds and protein targets",
			Tags:        []string{"Ayurveda", "inflammation", "turmeric"},
			CreatedDate: project.MustParseDate("2025-12-15"),
			LastUpdated: project.MustParseDate("2026-01-05"),
			Status:      project.StatusInProgress,
			CurrentStep: 7,
			Data:        project.Data{},
		},
		{
			ID:          "2",
			Name:        "Ashwagandha Neuroprotection",
			Description: "Withanolides for cognitive enhancement",
			Objective:   "Screen for blood-brain barrier permeability",
			Tags:        []string{"Ayurveda", "neuroprotection", "ashwagandha"},
			CreatedDate: project.MustParseDate("2025-11-20"),
			LastUpdated: project.MustParseDate("2025-12-28"),
			Status:      project.StatusCompleted,
			CurrentStep: 16,
			Data:        project.Data{},
		},
	}
}
