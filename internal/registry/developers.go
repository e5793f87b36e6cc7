package registry

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/jeanpaul/feedbackloop/internal/store"
	"github.com/jeanpaul/feedbackloop/internal/types"
)

// Developers is the ordered developer registry. It mirrors the developers
// collection and is only appended to.
type Developers struct {
	store     store.Store
	items     []types.Developer
	uniqueIDs bool
}

// DevelopersOption configures a Developers registry.
type DevelopersOption func(*Developers)

// WithUniqueIDs makes Add reject an id that is already registered.
// Records hydrated from the store are never rejected.
func WithUniqueIDs(on bool) DevelopersOption {
	return func(d *Developers) { d.uniqueIDs = on }
}

// NewDevelopers loads every stored developer in storage order.
func NewDevelopers(ctx context.Context, s store.Store, opts ...DevelopersOption) (*Developers, error) {
	d := &Developers{store: s}
	for _, o := range opts {
		o(d)
	}

	stored, err := s.Developers(ctx)
	if err != nil {
		return nil, &StoreError{Op: "load", Collection: store.DevelopersCollection, Err: err}
	}
	d.items = append(d.items, stored...)

	log.Debug().Int("count", len(d.items)).Msg("developers hydrated")
	return d, nil
}

// Add persists a new developer and appends it to the registry.
func (d *Developers) Add(ctx context.Context, id, name, project string) (types.Developer, error) {
	dev := types.Developer{ID: id, Name: name, Project: project}

	if d.uniqueIDs {
		if _, ok := d.Find(id); ok {
			return types.Developer{}, fmt.Errorf("%w: %q", ErrDuplicateDeveloper, id)
		}
	}

	if err := d.store.InsertDeveloper(ctx, dev); err != nil {
		return types.Developer{}, &StoreError{Op: "insert", Collection: store.DevelopersCollection, Err: err}
	}
	d.items = append(d.items, dev)

	log.Info().Str("dev_id", id).Msg("developer added")
	return dev, nil
}

// Find returns the first-registered developer with the given id.
func (d *Developers) Find(id string) (types.Developer, bool) {
	for _, dev := range d.items {
		if dev.ID == id {
			return dev, true
		}
	}
	return types.Developer{}, false
}

// List returns the developers in insertion order.
func (d *Developers) List() []types.Developer {
	out := make([]types.Developer, len(d.items))
	copy(out, d.items)
	return out
}

func (d *Developers) Len() int { return len(d.items) }

// Display writes one line per developer, or a notice when there are none.
func (d *Developers) Display(w io.Writer) error {
	if len(d.items) == 0 {
		_, err := fmt.Fprintln(w, noDevelopersMsg)
		return err
	}
	for _, dev := range d.items {
		if _, err := fmt.Fprintln(w, FormatDeveloper(dev)); err != nil {
			return err
		}
	}
	return nil
}
