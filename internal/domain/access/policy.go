package access

import "kra360/internal/domain/auth"

type Relationship string

const (
	RelationshipSelf   Relationship = "self"
	RelationshipDirect Relationship = "direct"
	RelationshipOther  Relationship = "other"
)

// Permissions is the set of actions a viewer may take on one employee's
// goals. Views thread this value through instead of re-deriving it.
type Permissions struct {
	CanList         bool `json:"canList"`
	CanView         bool `json:"canView"`
	CanEdit         bool `json:"canEdit"`
	CanGiveFeedback bool `json:"canGiveFeedback"`
	CanAddGoal      bool `json:"canAddGoal"`
	CanRequestGoal  bool `json:"canRequestGoal"`
}

// Policy decides what Viewer may do with another employee's data. Reportees
// is the only source for the direct relationship. Teammates grants
// employee viewers read-only access to their team tab.
type Policy struct {
	Viewer    auth.Identity
	Reportees ReporteeSet
	Teammates ReporteeSet
}

func NewPolicy(viewer auth.Identity, reportees ReporteeSet) Policy {
	return Policy{Viewer: viewer, Reportees: reportees}
}

func (p Policy) WithTeammates(teammates ReporteeSet) Policy {
	p.Teammates = teammates
	return p
}

func (p Policy) Relationship(targetID string) Relationship {
	switch {
	case targetID != "" && targetID == p.Viewer.ID:
		return RelationshipSelf
	case p.Reportees.Contains(targetID):
		return RelationshipDirect
	default:
		return RelationshipOther
	}
}

func (p Policy) Permissions(targetID string) Permissions {
	if p.Viewer.ID == "" || targetID == "" {
		return Permissions{}
	}
	relationship := p.Relationship(targetID)
	switch relationship {
	case RelationshipSelf:
		return Permissions{
			CanList:        true,
			CanView:        true,
			CanEdit:        true,
			CanRequestGoal: p.Viewer.Role == auth.RoleEmployee,
		}
	case RelationshipDirect:
		if p.Viewer.Role == auth.RoleEmployee {
			return Permissions{CanView: true}
		}
		return Permissions{
			CanList:         true,
			CanView:         true,
			CanEdit:         true,
			CanGiveFeedback: true,
			CanAddGoal:      true,
		}
	}

	switch p.Viewer.Role {
	case auth.RoleHR:
		return Permissions{CanList: true, CanView: true}
	case auth.RoleManager:
		return Permissions{CanView: true}
	default:
		if p.Teammates.Contains(targetID) {
			return Permissions{CanView: true}
		}
		return Permissions{}
	}
}

// CanEdit is the single edit gate: self or a direct reportee.
func (p Policy) CanEdit(targetID string) bool {
	return p.Permissions(targetID).CanEdit
}

func (p Policy) CanGiveFeedback(targetID string) bool {
	return p.Permissions(targetID).CanGiveFeedback
}
