package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// UpfitterFilter narrows the installer directory. Zero values match all.
type UpfitterFilter struct {
	State     string
	Specialty string
	EvReady   bool
}

// IncentiveFilter is the server-side narrowing applied before the
// resolver sees the records.
type IncentiveFilter struct {
	Series         string
	BodyType       string
	State          string
	PowertrainType string
}

// Provider is the read-only catalog surface consumed by the configurator
// and the pricing engine.
type Provider interface {
	GetChassis() []Chassis
	GetBody(bodyType string) (Body, bool)
	GetBodies() map[string]Body
	GetBodyTypes() []string
	GetOptions() Options
	GetIncentives(f IncentiveFilter) IncentiveSet
	GetUpfitters(f UpfitterFilter) []Upfitter
}

// FileProvider loads the five catalog files once at startup and serves
// them from memory.
type FileProvider struct {
	chassis    []Chassis
	bodies     map[string]Body
	bodyTypes  []string
	options    Options
	incentives IncentiveSet
	upfitters  []Upfitter
}

func Load(dir string) (*FileProvider, error) {
	p := &FileProvider{}
	if err := readJSON(filepath.Join(dir, "chassis.json"), &p.chassis); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "bodies.json"), &p.bodies); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "options.json"), &p.options); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "incentives.json"), &p.incentives); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "upfitters.json"), &p.upfitters); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	p.bodyTypes = make([]string, 0, len(p.bodies))
	for bt := range p.bodies {
		p.bodyTypes = append(p.bodyTypes, bt)
	}
	log.Printf("catalog loaded from %s: %d chassis, %d body types, %d upfitters",
		dir, len(p.chassis), len(p.bodies), len(p.upfitters))
	return p, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (p *FileProvider) validate() error {
	if len(p.chassis) == 0 {
		return fmt.Errorf("no chassis entries")
	}
	for _, c := range p.chassis {
		if c.Series == "" {
			return fmt.Errorf("chassis entry without series")
		}
	}
	for bt, b := range p.bodies {
		if bt != BodyTypeChassisOnly && len(b.BasePrice) == 0 {
			return fmt.Errorf("body %q has no base-price table", bt)
		}
	}
	return nil
}

func (p *FileProvider) GetChassis() []Chassis { return p.chassis }

func (p *FileProvider) GetBody(bodyType string) (Body, bool) {
	b, ok := p.bodies[bodyType]
	return b, ok
}

func (p *FileProvider) GetBodies() map[string]Body { return p.bodies }

func (p *FileProvider) GetBodyTypes() []string { return p.bodyTypes }

func (p *FileProvider) GetOptions() Options { return p.options }

func (p *FileProvider) GetIncentives(f IncentiveFilter) IncentiveSet {
	out := p.incentives
	out.Incentives = nil
	for _, in := range p.incentives.Incentives {
		if !matchList(in.Conditions.Series, f.Series) {
			continue
		}
		if !matchList(in.Conditions.BodyTypes, f.BodyType) {
			continue
		}
		if !matchList(in.Conditions.States, f.State) {
			continue
		}
		if !matchList(in.Conditions.PowertrainTypes, f.PowertrainType) {
			continue
		}
		out.Incentives = append(out.Incentives, in)
	}
	return out
}

// matchList: an empty condition list matches everything; an empty fact
// only matches unconditional records.
func matchList(allowed []string, fact string) bool {
	if len(allowed) == 0 {
		return true
	}
	if fact == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(a, fact) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func (p *FileProvider) GetUpfitters(f UpfitterFilter) []Upfitter {
	var out []Upfitter
	for _, u := range p.upfitters {
		if f.State != "" && !strings.EqualFold(u.State, f.State) {
			continue
		}
		if f.Specialty != "" && !contains(u.Specialties, f.Specialty) {
			continue
		}
		if f.EvReady && !u.EvReady {
			continue
		}
		out = append(out, u)
	}
	return out
}
