// Package project holds research projects and the data each pipeline stage
// accumulates on them.
package project

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

// Status is an informational label; no transition table governs it.
type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusNew, StatusInProgress, StatusCompleted}
}

// Data is a project's data bag: at most one payload per key.
type Data map[DataKey]StagePayload

// Clone returns a deep copy of d.  A nil bag clones to an empty one.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		if v != nil {
			out[k] = v.clonePayload()
		}
	}
	return out
}

// Has reports whether d holds a payload under key.
func (d Data) Has(key DataKey) bool { return d[key] != nil }

// Keys returns the keys present in d in pipeline order.
func (d Data) Keys() []DataKey {
	var keys []DataKey
	for _, k := range DataKeys() {
		if _, ok := d[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// PlantData returns the plantData payload, if stored.
func (d Data) PlantData() (PlantInputData, bool) {
	v, ok := d[KeyPlantData].(PlantInputData)
	return v, ok
}

// Compounds returns the compounds payload, if stored.
func (d Data) Compounds() (CompoundListData, bool) {
	v, ok := d[KeyCompounds].(CompoundListData)
	return v, ok
}

// Descriptors returns the descriptors payload, if stored.
func (d Data) Descriptors() (DescriptorData, bool) {
	v, ok := d[KeyDescriptors].(DescriptorData)
	return v, ok
}

// Substitutions returns the substitutions payload, if stored.
func (d Data) Substitutions() (SubstitutionData, bool) {
	v, ok := d[KeySubstitutions].(SubstitutionData)
	return v, ok
}

// Admet returns the admet payload, if stored.
func (d Data) Admet() (AdmetData, bool) {
	v, ok := d[KeyAdmet].(AdmetData)
	return v, ok
}

// Targets returns the targets payload, if stored.
func (d Data) Targets() (TargetData, bool) {
	v, ok := d[KeyTargets].(TargetData)
	return v, ok
}

// DockingSetup returns the dockingSetup payload, if stored.
func (d Data) DockingSetup() (DockingSetupData, bool) {
	v, ok := d[KeyDockingSetup].(DockingSetupData)
	return v, ok
}

// DockingResults returns the dockingResults payload, if stored.
func (d Data) DockingResults() (DockingResultData, bool) {
	v, ok := d[KeyDockingResults].(DockingResultData)
	return v, ok
}

// NetworkSetup returns the networkSetup payload, if stored.
func (d Data) NetworkSetup() (NetworkSetupData, bool) {
	v, ok := d[KeyNetworkSetup].(NetworkSetupData)
	return v, ok
}

// UnmarshalJSON decodes each entry into the variant registered for its key.
func (d *Data) UnmarshalJSON(b []byte) error {
	var raw map[DataKey]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Data, len(raw))
	for k, msg := range raw {
		p, err := DecodePayload(k, msg)
		if err != nil {
			return err
		}
		out[k] = p
	}
	*d = out
	return nil
}

// Project is an immutable snapshot of a research project.  Values handed
// out by the Store never share mutable state with it.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Objective   string   `json:"objective"`
	Tags        []string `json:"tags"`
	CreatedDate Date     `json:"createdDate"`
	LastUpdated Date     `json:"lastUpdated"`
	Status      Status   `json:"status"`
	CurrentStep int      `json:"currentStep"`
	Data        Data     `json:"data"`
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	c := p
	c.Tags = append([]string{}, p.Tags...)
	c.Data = p.Data.Clone()
	return c
}

// HasTag reports whether p carries tag, ignoring case.
func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// CreateInput carries the user-supplied fields of a new project.
type CreateInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Objective   string   `json:"objective"`
	Tags        []string `json:"tags"`
}

// Validate checks the required fields.
func (in CreateInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.New(apperrors.ErrCodeProjectNameRequired, "project name is required").
			WithDetail("field=name")
	}
	return nil
}

func (p Project) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.New(apperrors.ErrCodeProjectNameRequired, "project name is required").
			WithDetail("field=name")
	}
	if !p.Status.Valid() {
		return apperrors.Validation("status", fmt.Sprintf("unknown status %q", p.Status))
	}
	if p.CurrentStep < 0 {
		return apperrors.Validation("currentStep", "currentStep must not be negative")
	}
	if p.LastUpdated.Before(p.CreatedDate) {
		return apperrors.Validation("lastUpdated", "lastUpdated precedes createdDate")
	}
	for k, v := range p.Data {
		if err := CheckPayload(k, v); err != nil {
			return err
		}
	}
	return nil
}
