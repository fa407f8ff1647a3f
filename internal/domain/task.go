package domain

import "time"

type Task struct {
	ID          string
	Name        string
	Description string
	DueDate     string
	Status      string
	Category    string
	Owner       Ownership
	CreatedAt   time.Time
}

// Ownership is either Personal or GroupAssigned.
type Ownership interface {
	isOwnership()
}

type Personal struct {
	Owner string
}

type GroupAssigned struct {
	Creator  string
	Assignee string
	Group    string
}

func (Personal) isOwnership()      {}
func (GroupAssigned) isOwnership() {}

// CanUpdateStatus is the ownership gate for the personal update path:
// the owner of a personal task or an admin.
func (t Task) CanUpdateStatus(who Identity) bool {
	if who.IsAdmin() {
		return true
	}
	p, ok := t.Owner.(Personal)
	return ok && p.Owner == who.ID
}

// CanDrop is the ownership gate for the group update path: the assignee of a
// group task or an admin.
func (t Task) CanDrop(who Identity) bool {
	if who.IsAdmin() {
		return true
	}
	g, ok := t.Owner.(GroupAssigned)
	return ok && g.Assignee == who.ID
}
