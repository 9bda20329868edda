// Package programfile reads and writes programs as YAML documents.
//
// The document mirrors the grid: weeks are declared once, and every item
// carries its prescriptions keyed by week id in compact notation. Because
// the session skeleton is written only once, a decoded program always has
// the same sessions, groups and items in every week.
package programfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/coachgrid/internal/notation"
	"github.com/javiermolinar/coachgrid/internal/program"
)

// Errors returned while decoding.
var (
	ErrUnknownWeek       = errors.New("prescription references an unknown week")
	ErrMissingExercise   = errors.New("item has no exercise")
	ErrDuplicateWeekID   = errors.New("duplicate week id")
	ErrUnsupportedFormat = errors.New("unsupported document version")
)

// Version is written to every exported document.
const Version = 1

// Document is the YAML representation of a program.
type Document struct {
	Version     int            `yaml:"version"`
	ID          string         `yaml:"id,omitempty"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	AthleteID   string         `yaml:"athlete_id,omitempty"`
	Status      program.Status `yaml:"status,omitempty"`
	Exercises   []Exercise     `yaml:"exercises,omitempty"`
	Weeks       []Week         `yaml:"weeks"`
	Sessions    []Session      `yaml:"sessions"`
}

// Exercise is a catalog entry shipped with the document.
type Exercise struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Curated bool   `yaml:"curated,omitempty"`
}

// Week declares a column of the program.
type Week struct {
	ID   string `yaml:"id,omitempty"`
	Name string `yaml:"name"`
}

// Session is a training day and its groups.
type Session struct {
	ID     string  `yaml:"id,omitempty"`
	Name   string  `yaml:"name"`
	Groups []Group `yaml:"groups"`
}

// Group holds one exercise, or several for a superset.
type Group struct {
	ID    string `yaml:"id,omitempty"`
	Items []Item `yaml:"items"`
}

// Item is one exercise row with its prescription per week id.
type Item struct {
	ID       string            `yaml:"id,omitempty"`
	Exercise string            `yaml:"exercise"`
	Name     string            `yaml:"name,omitempty"` // informative only
	Weeks    map[string]string `yaml:"weeks,omitempty"`
}

// FromProgram builds a document for p. Exercise names come from catalog;
// only entries referenced by the program are included.
func FromProgram(p *program.Program, catalog map[string]program.Exercise) *Document {
	p = p.Clone()
	p.Sort()

	doc := &Document{
		Version:     Version,
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		AthleteID:   p.AthleteID,
		Status:      p.Status,
	}
	for _, w := range p.Weeks {
		doc.Weeks = append(doc.Weeks, Week{ID: w.ID, Name: w.Name})
	}

	canonical, ok := p.CanonicalWeek()
	if !ok {
		return doc
	}

	seen := make(map[string]bool)
	for _, s := range canonical.Sessions {
		ds := Session{ID: s.ID, Name: s.Name}
		for _, g := range s.Groups {
			dg := Group{ID: g.ID}
			for _, it := range g.Items {
				di := Item{ID: it.ID, Exercise: it.ExerciseID}
				if ex, ok := catalog[it.ExerciseID]; ok {
					di.Name = ex.Name
					if !seen[ex.ID] {
						seen[ex.ID] = true
						doc.Exercises = append(doc.Exercises, Exercise{ID: ex.ID, Name: ex.Name, Curated: ex.IsCurated})
					}
				}
				for _, w := range p.Weeks {
					if text := prescription(w, it.ID); text != "" {
						if di.Weeks == nil {
							di.Weeks = make(map[string]string)
						}
						di.Weeks[w.ID] = text
					}
				}
				dg.Items = append(dg.Items, di)
			}
			ds.Groups = append(ds.Groups, dg)
		}
		doc.Sessions = append(doc.Sessions, ds)
	}
	return doc
}

func prescription(w program.Week, itemID string) string {
	it, _, ok := w.FindItem(itemID)
	if !ok {
		return ""
	}
	if it.Unparsed != "" {
		return it.Unparsed
	}
	return notation.Format(it.Series)
}

// Program converts the document into an aggregate. Missing ids are
// generated; prescriptions that do not parse are kept as raw text.
func (d *Document) Program() (*program.Program, error) {
	if d.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, d.Version)
	}

	p := &program.Program{
		ID:          orNewID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		AthleteID:   d.AthleteID,
		Status:      d.Status,
	}
	if p.Status == "" {
		p.Status = program.StatusDraft
	}
	if !p.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q", p.Status)
	}

	weekIDs := make(map[string]bool, len(d.Weeks))
	for wi, dw := range d.Weeks {
		w := program.Week{ID: orNewID(dw.ID), Name: dw.Name, OrderIndex: wi}
		if weekIDs[w.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateWeekID, w.ID)
		}
		weekIDs[w.ID] = true
		if w.Name == "" {
			w.Name = fmt.Sprintf("Week %d", wi+1)
		}
		p.Weeks = append(p.Weeks, w)
	}

	for si, ds := range d.Sessions {
		sessionID := orNewID(ds.ID)
		groups := make([]program.ExerciseGroup, 0, len(ds.Groups))
		for gi, dg := range ds.Groups {
			g := program.ExerciseGroup{ID: orNewID(dg.ID), OrderIndex: gi}
			for ii, di := range dg.Items {
				if di.Exercise == "" {
					return nil, fmt.Errorf("%w: session %q group %d item %d", ErrMissingExercise, ds.Name, gi+1, ii+1)
				}
				for weekID := range di.Weeks {
					if !weekIDs[weekID] {
						return nil, fmt.Errorf("%w: %s", ErrUnknownWeek, weekID)
					}
				}
				g.Items = append(g.Items, program.GroupItem{ID: orNewID(di.ID), ExerciseID: di.Exercise, OrderIndex: ii})
			}
			groups = append(groups, g)
		}

		for wi := range p.Weeks {
			weekID := p.Weeks[wi].ID
			s := program.Session{ID: sessionID, Name: ds.Name, OrderIndex: si}
			for gi, g := range groups {
				g = g.Clone()
				for ii := range g.Items {
					fillPrescription(&g.Items[ii], ds.Groups[gi].Items[ii].Weeks[weekID])
				}
				s.Groups = append(s.Groups, g)
			}
			p.Weeks[wi].Sessions = append(p.Weeks[wi].Sessions, s)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func fillPrescription(it *program.GroupItem, text string) {
	series, err := notation.Parse(text)
	if err != nil {
		it.Unparsed = text
		return
	}
	it.Series = series
}

// Catalog returns the exercises shipped with the document.
func (d *Document) Catalog() []program.Exercise {
	out := make([]program.Exercise, 0, len(d.Exercises))
	for _, ex := range d.Exercises {
		out = append(out, program.Exercise{ID: ex.ID, Name: ex.Name, IsCurated: ex.Curated})
	}
	return out
}

func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// Encode writes the document as YAML.
func Encode(w io.Writer, d *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	return enc.Close()
}

// Decode reads a YAML document. Unknown fields are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Document
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty program file")
		}
		return nil, fmt.Errorf("parsing program file: %w", err)
	}
	return &d, nil
}

// ReadFile decodes the program stored at path.
func ReadFile(path string) (*program.Program, []program.Exercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading program file: %w", err)
	}
	d, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	p, err := d.Program()
	if err != nil {
		return nil, nil, err
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	return p, d.Catalog(), nil
}

// WriteFile exports p to path.
func WriteFile(path string, p *program.Program, catalog map[string]program.Exercise) error {
	var buf bytes.Buffer
	if err := Encode(&buf, FromProgram(p, catalog)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing program file: %w", err)
	}
	return nil
}
