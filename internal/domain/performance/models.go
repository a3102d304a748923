package performance

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// ZohoGoal is a goal record as synced from the HRIS.
type ZohoGoal struct {
	ID                string   `json:"id"`
	ZohoGoalID        string   `json:"zohoGoalId"`
	GoalNameOnZoho    string   `json:"goalNameOnZoho"`
	Description       string   `json:"description"`
	Priority          string   `json:"priority"`
	StartDate         string   `json:"startDate"`
	DueDate           string   `json:"dueDate"`
	ZohoProgress      *float64 `json:"zohoProgress"`
	LocalProgress     *float64 `json:"localProgress"`
	OriginalProgress  *float64 `json:"originalProgress,omitempty"`
	Status            string   `json:"status"`
	SyncStatus        string   `json:"syncStatus"`
	LastEditedLocally *string  `json:"lastEditedLocally,omitempty"`
	LastSyncedAt      string   `json:"lastSyncedAt"`
	HasLocalChanges   bool     `json:"hasLocalChanges"`
}

// KRA is a key result area container with its goals, in backend order.
type KRA struct {
	ID          string     `json:"id"`
	KRAIDOnZoho string     `json:"kraIdOnZoho"`
	Name        string     `json:"kraName"`
	GoalCount   int        `json:"goalCount"`
	Goals       []ZohoGoal `json:"goals"`
}

type KRAEmployee struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
}

type KRASummary struct {
	TotalKRAs             int     `json:"totalKRAs"`
	TotalGoals            int     `json:"totalGoals"`
	ActiveGoals           int     `json:"activeGoals"`
	GoalsWithLocalChanges int     `json:"goalsWithLocalChanges"`
	AverageProgress       float64 `json:"averageProgress"`
}

// EmployeeKRAs is the KRA hierarchy of one employee.
type EmployeeKRAs struct {
	Employee KRAEmployee `json:"employee"`
	KRAs     []KRA       `json:"kras"`
	Summary  KRASummary  `json:"summary"`
}

// Goal is the flat goal shape every view renders.
type Goal struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	PillarID         int       `json:"pillarId"`
	KRA              string    `json:"kra"`
	KRAID            string    `json:"kraId,omitempty"`
	Metrics          string    `json:"metrics"`
	Weightage        string    `json:"weightage,omitempty"`
	Priority         string    `json:"priority"`
	Progress         float64   `json:"progress"`
	StartDate        string    `json:"startDate"`
	DueDate          string    `json:"dueDate"`
	OwnerID          string    `json:"ownerId"`
	AssignedBy       string    `json:"assignedBy"`
	Status           string    `json:"status"`
	SyncStatus       string    `json:"syncStatus"`
	PositionInPillar int       `json:"positionInPillar"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Person is a populated user reference.
type Person struct {
	ID        string `json:"_id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

func (p Person) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PersonRef is a user reference that the backend sends either as a bare id
// or as a populated object.
type PersonRef struct {
	Person
}

func (r *PersonRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = PersonRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = PersonRef{Person: Person{ID: id}}
		return nil
	}
	var person Person
	if err := json.Unmarshal(data, &person); err != nil {
		return err
	}
	*r = PersonRef{Person: person}
	return nil
}

func (r PersonRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Person)
}

// Feedback is a feedback entry attached to a single goal.
type Feedback struct {
	ID          string  `json:"_id"`
	GoalID      string  `json:"goalId"`
	Provider    *Person `json:"providerId"`
	Comment     string  `json:"comment"`
	Rating      *int    `json:"rating,omitempty"`
	IsAnonymous bool    `json:"isAnonymous"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type FeedbackKRA struct {
	ID      string   `json:"_id"`
	KRAName string   `json:"kraName"`
	Users   []Person `json:"userIds"`
}

type FeedbackGoal struct {
	ID             string       `json:"_id"`
	KRA            *FeedbackKRA `json:"kraId,omitempty"`
	Description    string       `json:"description"`
	GoalNameOnZoho string       `json:"goalNameOnZoho"`
	Status         string       `json:"status"`
}

// FeedbackCenterItem is a received or given feedback entry with its goal
// and both parties populated.
type FeedbackCenterItem struct {
	ID          string       `json:"_id"`
	Goal        FeedbackGoal `json:"goalId"`
	Provider    *Person      `json:"providerId"`
	Recipient   *Person      `json:"recipientId"`
	Comment     string       `json:"comment"`
	Rating      *int         `json:"rating,omitempty"`
	IsAnonymous bool         `json:"isAnonymous"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

// Redacted hides the provider of anonymous feedback.
func (f FeedbackCenterItem) Redacted() FeedbackCenterItem {
	if f.IsAnonymous {
		f.Provider = nil
	}
	return f
}

type DueDateGoal struct {
	ID             string `json:"_id"`
	DueDateOnZoho  string `json:"dueDateOnZoho"`
	GoalNameOnZoho string `json:"goalNameOnZoho"`
}

// DueDateChangeRequest is a request to move the due date of a goal.
type DueDateChangeRequest struct {
	ID               string      `json:"_id"`
	Goal             DueDateGoal `json:"goalId"`
	RequestedBy      PersonRef   `json:"requestedBy"`
	CurrentDueDate   string      `json:"currentDueDate"`
	ProposedDueDate  string      `json:"proposedDueDate"`
	Status           string      `json:"status"`
	Approver         PersonRef   `json:"approverId"`
	ReviewedBy       *string     `json:"reviewedBy,omitempty"`
	ReviewedAt       *string     `json:"reviewedAt,omitempty"`
	ReviewerComments *string     `json:"reviewerComments,omitempty"`
	RequestedAt      string      `json:"requestedAt"`
	UpdatedAt        string      `json:"updatedAt"`
}

func (r DueDateChangeRequest) Pending() bool {
	return r.Status == DueDateStatusPending
}

type SyncChanges struct {
	Inserted    int `json:"inserted"`
	Updated     int `json:"updated"`
	Inactivated int `json:"inactivated"`
}

// SyncHistoryRecord describes one HRIS sync run.
type SyncHistoryRecord struct {
	ID               string      `json:"_id"`
	SyncType         string      `json:"syncType"`
	InitiatedBy      *string     `json:"initiatedBy"`
	Status           string      `json:"status"`
	RecordsProcessed int         `json:"recordsProcessed"`
	ChangesApplied   SyncChanges `json:"changesApplied"`
	ErrorDetails     *string     `json:"errorDetails"`
	StartedAt        string      `json:"startedAt"`
	CompletedAt      string      `json:"completedAt"`
}

type SyncHistory struct {
	History []SyncHistoryRecord `json:"history"`
	Count   int                 `json:"count"`
}

// Employee is a directory row.
type Employee struct {
	MongoID        string `json:"_id,omitempty"`
	ID             string `json:"id,omitempty"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Designation    string `json:"designation,omitempty"`
	Department     string `json:"department,omitempty"`
	EmployeeStatus string `json:"employeeStatus,omitempty"`
	Status         string `json:"status,omitempty"`
	Photo          string `json:"photo,omitempty"`
	ManagerID      string `json:"managerId,omitempty"`
}

// Key returns the employee id, whichever field the backend filled.
func (e Employee) Key() string {
	if e.MongoID != "" {
		return e.MongoID
	}
	return e.ID
}

func (e Employee) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	if name := strings.TrimSpace(e.FirstName + " " + e.LastName); name != "" {
		return name
	}
	return "Unknown Name"
}

type PageMetadata struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type EmployeePage struct {
	Employees []Employee   `json:"employees"`
	Metadata  PageMetadata `json:"metadata"`
}

// SyncRun is the backend's answer to a sync trigger.
type SyncRun struct {
	Status           string      `json:"status,omitempty"`
	Message          string      `json:"message,omitempty"`
	RecordsProcessed int         `json:"recordsProcessed,omitempty"`
	ChangesApplied   SyncChanges `json:"changesApplied"`
}
