package catalog

import (
	"slices"

	"github.com/Iron-Ham/persuade/internal/dialogue"
	"github.com/Iron-Ham/persuade/internal/errors"
	"github.com/Iron-Ham/persuade/internal/preference"
)

// Dataset is a catalog plus the named preference profiles that came with it.
type Dataset struct {
	Catalog  *preference.Catalog
	Agents   []string // profile names in source order
	Profiles map[string]*preference.Profile
	Source   string // file or directory it was read from; empty when generated
}

func newDataset(cat *preference.Catalog, source string) *Dataset {
	return &Dataset{
		Catalog:  cat,
		Profiles: make(map[string]*preference.Profile),
		Source:   source,
	}
}

// Profile returns the profile stored under name.
func (d *Dataset) Profile(name string) (*preference.Profile, error) {
	p, ok := d.Profiles[name]
	if !ok {
		return nil, errors.NewNotFoundError("agent", name).WithCause(errors.ErrUnknownAgent)
	}
	return p, nil
}

// SetProfile adds or replaces the profile for name.
func (d *Dataset) SetProfile(name string, p *preference.Profile) {
	if d.Profiles == nil {
		d.Profiles = make(map[string]*preference.Profile)
	}
	if _, ok := d.Profiles[name]; !ok {
		d.Agents = append(d.Agents, name)
	}
	d.Profiles[name] = p
}

// HasProfile reports whether name has a profile.
func (d *Dataset) HasProfile(name string) bool {
	_, ok := d.Profiles[name]
	return ok
}

// Participant pairs name with its profile for a dialogue run.
func (d *Dataset) Participant(name string) (dialogue.Participant, error) {
	p, err := d.Profile(name)
	if err != nil {
		return dialogue.Participant{}, err
	}
	return dialogue.Participant{Name: name, Profile: p}, nil
}

// WithProfile replaces or adds the profile for name from criterion names.
// An empty order leaves the dataset unchanged.
func (d *Dataset) WithProfile(name string, order []string) error {
	if len(order) == 0 {
		return nil
	}
	p, err := preference.ParseProfile(order)
	if err != nil {
		return errors.Wrapf(err, "criteria for %s", name)
	}
	d.SetProfile(name, p)
	return nil
}

func validateAgentNames(names []string) error {
	for i, name := range names {
		if name == "" {
			return errors.NewValidationError("agent name cannot be empty").WithField("agents")
		}
		if slices.Contains(names[:i], name) {
			return errors.NewValidationError("agent listed twice").
				WithValue(name).
				WithCause(errors.ErrDuplicateAgent)
		}
	}
	return nil
}
