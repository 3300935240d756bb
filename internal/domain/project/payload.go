package project

import (
	"encoding/json"
	"fmt"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

// DataKey names one entry of a project's data bag.
type DataKey string

const (
	KeyPlantData      DataKey = "plantData"
	KeyCompounds      DataKey = "compounds"
	KeyDescriptors    DataKey = "descriptors"
	KeySubstitutions  DataKey = "substitutions"
	KeyAdmet          DataKey = "admet"
	KeyTargets        DataKey = "targets"
	KeyDockingSetup   DataKey = "dockingSetup"
	KeyDockingResults DataKey = "dockingResults"
	KeyNetworkSetup   DataKey = "networkSetup"
)

// DataKeys lists every key in pipeline order.
func DataKeys() []DataKey {
	return []DataKey{
		KeyPlantData, KeyCompounds, KeyDescriptors, KeySubstitutions, KeyAdmet,
		KeyTargets, KeyDockingSetup, KeyDockingResults, KeyNetworkSetup,
	}
}

// Valid reports whether k is one of the known data keys.
func (k DataKey) Valid() bool {
	_, ok := payloadFactories[k]
	return ok
}

// StagePayload is the closed set of values a stage can store.  Only the
// variants declared in this package satisfy it.
type StagePayload interface {
	// Key is the data bag key this variant belongs under.
	Key() DataKey
	clonePayload() StagePayload
}

// PlantInputData is written by the plant-input stage.
type PlantInputData struct {
	PlantName      string                 `json:"plantName"`
	PlantPart      string                 `json:"plantPart"`
	TraditionalUse string                 `json:"traditionalUse,omitempty"`
	Databases      research.DatabaseFlags `json:"databases"`
	DukesFilters   research.DukesFilters  `json:"dukesFilters"`
}

// CompoundListData is written by phytochemical-review and smiles-upload.
type CompoundListData []research.Compound

// DescriptorData is written by the descriptors stage.  ToxicCompounds is the
// subset of Descriptors flagged with a toxicophore; it is always derived from
// the flags and never taken from the caller.
type DescriptorData struct {
	Descriptors    []research.Descriptor `json:"descriptors"`
	ToxicCompounds []research.Descriptor `json:"toxicCompounds"`
}

// NewDescriptorData derives ToxicCompounds from descriptors.
func NewDescriptorData(descriptors []research.Descriptor) DescriptorData {
	d := DescriptorData{
		Descriptors:    cloneSlice(descriptors),
		ToxicCompounds: []research.Descriptor{},
	}
	for _, desc := range descriptors {
		if desc.Toxicophore {
			d.ToxicCompounds = append(d.ToxicCompounds, desc)
		}
	}
	return d
}

// HasToxic reports whether any descriptor is flagged with a toxicophore.
func (d DescriptorData) HasToxic() bool {
	for _, desc := range d.Descriptors {
		if desc.Toxicophore {
			return true
		}
	}
	return false
}

// ToxicIDs returns the compound ids of the flagged descriptors.
func (d DescriptorData) ToxicIDs() []string {
	ids := make([]string, 0, len(d.Descriptors))
	for _, desc := range d.Descriptors {
		if desc.Toxicophore {
			ids = append(ids, desc.CompoundID)
		}
	}
	return ids
}

// UnmarshalJSON ignores any toxicCompounds sent by the client and derives the
// list from the descriptor flags.
func (d *DescriptorData) UnmarshalJSON(b []byte) error {
	var raw struct {
		Descriptors []research.Descriptor `json:"descriptors"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = NewDescriptorData(raw.Descriptors)
	return nil
}

// SubstitutionData is written by toxicophore-substitution.
type SubstitutionData struct {
	Substitutions []research.Substitution `json:"substitutions"`
}

// AdmetData is written by the admet stage and holds the selected results.
type AdmetData struct {
	Results []research.AdmetResult `json:"admetResults"`
}

// TargetData is written by target-prediction and holds the selected hits.
type TargetData struct {
	Targets   []research.TargetHit `json:"targets"`
	Threshold float64              `json:"threshold,omitempty"`
}

// DockingSetupData is written by docking-setup.
type DockingSetupData struct {
	Compounds []string `json:"compounds"`
	Targets   []string `json:"targets"`
	Engines   []string `json:"engines"`
}

// JobCount is the number of docking runs the setup implies.
func (d DockingSetupData) JobCount() int {
	return len(d.Compounds) * len(d.Targets) * len(d.Engines)
}

// DockingResultData is written by docking-results.
type DockingResultData struct {
	Results []research.DockingResult `json:"results"`
}

// NetworkSetupData is written by network-setup.
type NetworkSetupData struct {
	Plants    []string `json:"plants"`
	Compounds []string `json:"compounds"`
	Targets   []string `json:"targets"`
	Threshold float64  `json:"threshold"`
}

// Request converts the setup into a network build request.
func (d NetworkSetupData) Request() research.NetworkRequest {
	return research.NetworkRequest{
		Plants:    cloneStrings(d.Plants),
		Compounds: cloneStrings(d.Compounds),
		Targets:   cloneStrings(d.Targets),
		Threshold: d.Threshold,
	}
}

func (PlantInputData) Key() DataKey    { return KeyPlantData }
func (CompoundListData) Key() DataKey  { return KeyCompounds }
func (DescriptorData) Key() DataKey    { return KeyDescriptors }
func (SubstitutionData) Key() DataKey  { return KeySubstitutions }
func (AdmetData) Key() DataKey         { return KeyAdmet }
func (TargetData) Key() DataKey        { return KeyTargets }
func (DockingSetupData) Key() DataKey  { return KeyDockingSetup }
func (DockingResultData) Key() DataKey { return KeyDockingResults }
func (NetworkSetupData) Key() DataKey  { return KeyNetworkSetup }

func (p PlantInputData) clonePayload() StagePayload { return p }

func (p CompoundListData) clonePayload() StagePayload {
	return CompoundListData(cloneSlice(p))
}

// The stored copy re-derives ToxicCompounds so it always matches the flags.
func (p DescriptorData) clonePayload() StagePayload {
	return NewDescriptorData(p.Descriptors)
}

func (p SubstitutionData) clonePayload() StagePayload {
	return SubstitutionData{Substitutions: cloneSlice(p.Substitutions)}
}

func (p AdmetData) clonePayload() StagePayload {
	return AdmetData{Results: cloneSlice(p.Results)}
}

func (p TargetData) clonePayload() StagePayload {
	return TargetData{Targets: cloneSlice(p.Targets), Threshold: p.Threshold}
}

func (p DockingSetupData) clonePayload() StagePayload {
	return DockingSetupData{
		Compounds: cloneStrings(p.Compounds),
		Targets:   cloneStrings(p.Targets),
		Engines:   cloneStrings(p.Engines),
	}
}

func (p DockingResultData) clonePayload() StagePayload {
	return DockingResultData{Results: cloneSlice(p.Results)}
}

func (p NetworkSetupData) clonePayload() StagePayload {
	return NetworkSetupData{
		Plants:    cloneStrings(p.Plants),
		Compounds: cloneStrings(p.Compounds),
		Targets:   cloneStrings(p.Targets),
		Threshold: p.Threshold,
	}
}

var payloadFactories = map[DataKey]func() any{
	KeyPlantData:      func() any { return &PlantInputData{} },
	KeyCompounds:      func() any { return &CompoundListData{} },
	KeyDescriptors:    func() any { return &DescriptorData{} },
	KeySubstitutions:  func() any { return &SubstitutionData{} },
	KeyAdmet:          func() any { return &AdmetData{} },
	KeyTargets:        func() any { return &TargetData{} },
	KeyDockingSetup:   func() any { return &DockingSetupData{} },
	KeyDockingResults: func() any { return &DockingResultData{} },
	KeyNetworkSetup:   func() any { return &NetworkSetupData{} },
}

// DecodePayload decodes raw JSON into the variant registered for key.
func DecodePayload(key DataKey, raw []byte) (StagePayload, error) {
	factory, ok := payloadFactories[key]
	if !ok {
		return nil, apperrors.Validation("data", fmt.Sprintf("unknown data key %q", key))
	}
	target := factory()
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization,
			fmt.Sprintf("cannot decode %s payload", key))
	}
	switch v := target.(type) {
	case *PlantInputData:
		return *v, nil
	case *CompoundListData:
		return *v, nil
	case *DescriptorData:
		return *v, nil
	case *SubstitutionData:
		return *v, nil
	case *AdmetData:
		return *v, nil
	case *TargetData:
		return *v, nil
	case *DockingSetupData:
		return *v, nil
	case *DockingResultData:
		return *v, nil
	case *NetworkSetupData:
		return *v, nil
	}
	return nil, apperrors.Internal(fmt.Sprintf("no payload variant for %q", key))
}

// CheckPayload verifies that payload is a non-nil variant of key.
func CheckPayload(key DataKey, payload StagePayload) error {
	if !key.Valid() {
		return apperrors.New(apperrors.ErrCodePayloadMismatch,
			fmt.Sprintf("unknown data key %q", key))
	}
	if payload == nil {
		return apperrors.New(apperrors.ErrCodePayloadMismatch,
			fmt.Sprintf("missing payload for %q", key))
	}
	if payload.Key() != key {
		return apperrors.New(apperrors.ErrCodePayloadMismatch,
			fmt.Sprintf("payload %T does not belong under %q", payload, key))
	}
	return nil
}

func cloneStrings(in []string) []string { return cloneSlice(in) }

// cloneSlice copies in, keeping nil as nil and empty as empty.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}
