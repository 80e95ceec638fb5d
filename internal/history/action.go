package history

import (
	"errors"
	"fmt"

	"github.com/agentic-research/potoo/api"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no entry matches an action's target.
	ErrNotFound = errors.New("entry not found")
	// ErrAmbiguousName is returned when more than one entry shares the
	// target name and the action carries no ID to tell them apart.
	ErrAmbiguousName = errors.New("ambiguous entry name")
)

// Category names the model collection an action edits.
type Category int

const (
	CategoryComponent Category = iota
	CategoryStartupSystem
	CategoryRuntimeSystem
)

func (c Category) String() string {
	switch c {
	case CategoryComponent:
		return "component"
	case CategoryStartupSystem:
		return "startup system"
	case CategoryRuntimeSystem:
		return "runtime system"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Op is the kind of edit an action performs.
type Op int

const (
	OpAdd Op = iota
	OpRemove
	OpUpdate
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpUpdate:
		return "update"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Action is a reversible edit of a model.
type Action interface {
	Op() Op
	Category() Category
	// Target is the name of the entry the action edits.
	Target() string
	Apply(m *api.Model) error
	Undo(m *api.Model) error
}

// entry is implemented by the model types actions operate on.
type entry interface {
	api.Component | api.System
}

func keyOf[T entry](v T) (id, name string) {
	switch x := any(v).(type) {
	case api.Component:
		return x.ID, x.Name
	case api.System:
		return x.ID, x.Name
	}
	return "", ""
}

func withID[T entry](v T, id string) T {
	switch x := any(&v).(type) {
	case *api.Component:
		x.ID = id
	case *api.System:
		x.ID = id
	}
	return v
}

// indexOf finds the entry matching id, or name when id is empty.
func indexOf[T entry](entries []T, id, name string) (int, error) {
	found := -1
	for i, e := range entries {
		eid, ename := keyOf(e)
		if id != "" {
			if eid == id {
				return i, nil
			}
			continue
		}
		if ename != name {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%w: %q", ErrAmbiguousName, name)
		}
		found = i
	}
	if found < 0 {
		if id != "" {
			return -1, fmt.Errorf("%w: %q (id %s)", ErrNotFound, name, id)
		}
		return -1, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return found, nil
}

func collection(m *api.Model, c Category) any {
	switch c {
	case CategoryComponent:
		return &m.Components
	case CategoryStartupSystem:
		return &m.StartupSystems
	default:
		return &m.Systems
	}
}

// slot returns the slice in m that holds entries of type T for category c.
func slot[T entry](m *api.Model, c Category) *[]T {
	s, ok := collection(m, c).(*[]T)
	if !ok {
		panic(fmt.Sprintf("history: %s does not hold %T", c, *new(T)))
	}
	return s
}

// add appends v and returns it with an ID assigned.
type add[T entry] struct {
	category Category
	value    T
}

func (a *add[T]) Op() Op             { return OpAdd }
func (a *add[T]) Category() Category { return a.category }
func (a *add[T]) Target() string {
	_, name := keyOf(a.value)
	return name
}

func (a *add[T]) Apply(m *api.Model) error {
	if id, _ := keyOf(a.value); id == "" {
		a.value = withID(a.value, uuid.NewString())
	}
	s := slot[T](m, a.category)
	*s = append(*s, a.value)
	return nil
}

func (a *add[T]) Undo(m *api.Model) error {
	s := slot[T](m, a.category)
	id, name := keyOf(a.value)
	i, err := indexOf(*s, id, name)
	if err != nil {
		return err
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
	return nil
}

// remove deletes the matching entry and remembers it with its position.
type remove[T entry] struct {
	category Category
	id, name string
	removed  T
	index    int
}

func (r *remove[T]) Op() Op             { return OpRemove }
func (r *remove[T]) Category() Category { return r.category }
func (r *remove[T]) Target() string     { return r.name }

func (r *remove[T]) Apply(m *api.Model) error {
	s := slot[T](m, r.category)
	i, err := indexOf(*s, r.id, r.name)
	if err != nil {
		return err
	}
	r.removed = (*s)[i]
	r.index = i
	// Later undo/redo must address the same entry.
	r.id, _ = keyOf(r.removed)
	*s = append((*s)[:i], (*s)[i+1:]...)
	return nil
}

func (r *remove[T]) Undo(m *api.Model) error {
	s := slot[T](m, r.category)
	i := r.index
	if i > len(*s) {
		i = len(*s)
	}
	*s = append(*s, r.removed)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = r.removed
	return nil
}

// update swaps before for after in place.
type update[T entry] struct {
	category      Category
	before, after T
}

func (u *update[T]) Op() Op             { return OpUpdate }
func (u *update[T]) Category() Category { return u.category }
func (u *update[T]) Target() string {
	_, name := keyOf(u.before)
	return name
}

func (u *update[T]) Apply(m *api.Model) error {
	s := slot[T](m, u.category)
	id, name := keyOf(u.before)
	i, err := indexOf(*s, id, name)
	if err != nil {
		return err
	}
	if bid, _ := keyOf((*s)[i]); bid != "" {
		if aid, _ := keyOf(u.after); aid == "" {
			u.after = withID(u.after, bid)
		}
		if id == "" {
			u.before = withID(u.before, bid)
		}
	}
	(*s)[i] = u.after
	return nil
}

func (u *update[T]) Undo(m *api.Model) error {
	s := slot[T](m, u.category)
	id, name := keyOf(u.after)
	i, err := indexOf(*s, id, name)
	if err != nil {
		return err
	}
	(*s)[i] = u.before
	return nil
}

// AddComponent appends c to the model's components.
func AddComponent(c api.Component) Action {
	return &add[api.Component]{category: CategoryComponent, value: c.Clone()}
}

// RemoveComponent removes the component with the given name.
func RemoveComponent(name string) Action {
	return &remove[api.Component]{category: CategoryComponent, name: name}
}

// UpdateComponent replaces before with after. Both snapshots are kept so the
// edit can be undone.
func UpdateComponent(before, after api.Component) Action {
	return &update[api.Component]{category: CategoryComponent, before: before.Clone(), after: after.Clone()}
}

// AddSystem appends s to the startup or runtime systems.
func AddSystem(c Category, s api.System) Action {
	return &add[api.System]{category: systemCategory(c), value: s.Clone()}
}

// RemoveSystem removes the system with the given name.
func RemoveSystem(c Category, name string) Action {
	return &remove[api.System]{category: systemCategory(c), name: name}
}

// UpdateSystem replaces before with after.
func UpdateSystem(c Category, before, after api.System) Action {
	return &update[api.System]{category: systemCategory(c), before: before.Clone(), after: after.Clone()}
}

func systemCategory(c Category) Category {
	if c != CategoryStartupSystem && c != CategoryRuntimeSystem {
		panic(fmt.Sprintf("history: %s is not a system category", c))
	}
	return c
}
