package performance

import "strings"

// CreateGoalInput is a new goal under an existing KRA.
type CreateGoalInput struct {
	GoalName         string   `json:"goalName" validate:"required"`
	Description      string   `json:"description"`
	DueDate          string   `json:"dueDate" validate:"required,isodate"`
	KRAID            string   `json:"kraId" validate:"required"`
	Priority         string   `json:"priority" validate:"omitempty,oneof=low medium high Low Medium High"`
	Progress         *float64 `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Weightage        string   `json:"weightage"`
	TargetEmployeeID string   `json:"targetEmployeeId"`
}

// CreateGoalPayload is the body of POST /goals.
type CreateGoalPayload struct {
	GoalName         string  `json:"goalName"`
	Description      string  `json:"description"`
	DueDate          string  `json:"dueDate"`
	KRAID            string  `json:"kraId"`
	Priority         string  `json:"priority"`
	Progress         float64 `json:"progress"`
	Weightage        string  `json:"weightage"`
	TargetEmployeeID string  `json:"targetEmployeeId"`
}

// Payload applies the creation defaults. The target defaults to the viewer.
func (in CreateGoalInput) Payload(viewerID string) CreateGoalPayload {
	payload := CreateGoalPayload{
		GoalName:         strings.TrimSpace(in.GoalName),
		Description:      in.Description,
		DueDate:          in.DueDate,
		KRAID:            in.KRAID,
		Priority:         BackendPriority(in.Priority),
		Weightage:        in.Weightage,
		TargetEmployeeID: in.TargetEmployeeID,
	}
	if in.Progress != nil {
		payload.Progress = *in.Progress
	}
	if payload.Weightage == "" {
		payload.Weightage = "0"
	}
	if payload.TargetEmployeeID == "" {
		payload.TargetEmployeeID = viewerID
	}
	return payload
}

// UpdateGoalInput is the body of PATCH /goals/{id}.
type UpdateGoalInput struct {
	GoalName    string  `json:"goalName" validate:"required"`
	Description string  `json:"description"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high Low Medium High"`
	Progress    float64 `json:"progress" validate:"gte=0,lte=100"`
	DueDate     string  `json:"dueDate" validate:"omitempty,isodate"`
}

// FeedbackInput is the body of POST /feedback.
type FeedbackInput struct {
	GoalID      string `json:"goalId" validate:"required"`
	Rating      int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment     string `json:"comment"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// DueDateChangeInput proposes a new due date for a goal.
type DueDateChangeInput struct {
	GoalID          string `json:"goalId" validate:"required"`
	CurrentDueDate  string `json:"currentDueDate" validate:"omitempty,isodate"`
	ProposedDueDate string `json:"proposedDueDate" validate:"required,isodate,nefield=CurrentDueDate"`
	Reason          string `json:"reason"`
}

// DueDateDecision is the body of PATCH /goals/due-date-requests/{id}.
type DueDateDecision struct {
	Approved bool `json:"approved"`
}
