package taskauction

import "strings"

// Participant is a member of the group that tasks are auctioned to.
type Participant struct {
	Name          string
	Points        int
	AssignedTasks []string
}

func (p *Participant) TasksAssigned() int { return len(p.AssignedTasks) }

// ParticipantView is the read-only form of a Participant.
type ParticipantView struct {
	Name          string   `json:"name"`
	Points        int      `json:"points"`
	AssignedTasks []string `json:"assigned_tasks"`
}

func (p *Participant) view() ParticipantView {
	tasks := make([]string, len(p.AssignedTasks))
	copy(tasks, p.AssignedTasks)
	return ParticipantView{Name: p.Name, Points: p.Points, AssignedTasks: tasks}
}

// CanonicalName trims surrounding whitespace; it is the registry key.
func CanonicalName(name string) string {
	return strings.TrimSpace(name)
}

// Registry is a name-keyed participant store. It is not safe for
// concurrent use; Service serializes access.
type Registry struct {
	startingPoints int
	users          map[string]*Participant
	order          []string
}

func NewRegistry(startingPoints int) *Registry {
	return &Registry{
		startingPoints: startingPoints,
		users:          make(map[string]*Participant),
	}
}

// Ensure returns the participant for name, creating it with the starting
// balance on first reference.
func (r *Registry) Ensure(name string) (*Participant, error) {
	key := CanonicalName(name)
	if key == "" {
		return nil, ErrInvalidName
	}
	if p, ok := r.users[key]; ok {
		return p, nil
	}
	p := &Participant{Name: key, Points: r.startingPoints, AssignedTasks: []string{}}
	r.users[key] = p
	r.order = append(r.order, key)
	return p, nil
}

func (r *Registry) Get(name string) (*Participant, bool) {
	p, ok := r.users[CanonicalName(name)]
	return p, ok
}

// List returns participants in insertion order.
func (r *Registry) List() []*Participant {
	out := make([]*Participant, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.users[name])
	}
	return out
}

func (r *Registry) views() []ParticipantView {
	out := make([]ParticipantView, 0, len(r.order))
	for _, p := range r.List() {
		out = append(out, p.view())
	}
	return out
}

// lookup resolves a name that is already canonical and non-empty, such as
// a bid's user.
func (r *Registry) lookup(key string) *Participant {
	p, _ := r.Ensure(key)
	return p
}
