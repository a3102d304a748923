package view

import (
	"context"
	"fmt"

	"kra360/internal/apiclient"
	"kra360/internal/domain/access"
	"kra360/internal/domain/auth"
	"kra360/internal/domain/performance"
)

// KRAGroup is one KRA with its mapped goals.
type KRAGroup struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Pillar performance.Pillar `json:"pillar"`
	Goals  []performance.Goal `json:"goals"`
}

type GoalBoardView struct {
	TargetID     string                                     `json:"targetId"`
	Employee     performance.KRAEmployee                    `json:"employee"`
	Relationship access.Relationship                        `json:"relationship"`
	Permissions  access.Permissions                         `json:"permissions"`
	KRAs         Loadable[[]KRAGroup]                       `json:"kras"`
	Summary      performance.BoardSummary                   `json:"summary"`
	Feedback     Loadable[[]performance.FeedbackCenterItem] `json:"feedback"`
}

// GoalBoard shows the KRAs and goals of targetID. An empty targetID means
// the viewer. Targets the viewer may not view return ErrForbidden.
func (s *Service) GoalBoard(ctx context.Context, targetID string) (GoalBoardView, error) {
	if err := s.require(auth.PermGoalsRead); err != nil {
		return GoalBoardView{}, err
	}
	if targetID == "" {
		targetID = s.viewer.ID
	}

	policy := access.NewPolicy(s.viewer, access.NewReporteeSet())
	if targetID != s.viewer.ID {
		policy = s.Policy(ctx)
		if s.viewer.Role == auth.RoleEmployee {
			policy = policy.WithTeammates(s.teammates(ctx))
		}
	}
	perms := policy.Permissions(targetID)
	if !perms.CanView {
		return GoalBoardView{}, ErrForbidden
	}

	board := GoalBoardView{
		TargetID:     targetID,
		Relationship: policy.Relationship(targetID),
		Permissions:  perms,
		Feedback:     LoadedList[performance.FeedbackCenterItem](nil),
	}

	var kras Loadable[performance.EmployeeKRAs]
	composer := NewComposer(ctx)
	FetchValue(composer, &kras, func(ctx context.Context) (performance.EmployeeKRAs, error) {
		return s.backend.ListUserKRAs(ctx, targetID)
	}, func(k performance.EmployeeKRAs) bool { return len(k.KRAs) == 0 })
	if targetID == s.viewer.ID {
		Fetch(composer, &board.Feedback, func(ctx context.Context) ([]performance.FeedbackCenterItem, error) {
			items, err := s.backend.FeedbackReceived(ctx)
			return redact(items), err
		})
	}
	if err := composer.Wait(); err != nil {
		return GoalBoardView{}, err
	}

	data, err := kras.Result()
	if err != nil {
		board.KRAs = Failed[[]KRAGroup](err)
		return board, nil
	}
	board.Employee = data.Employee
	groups, goals, err := s.groupKRAs(data.KRAs, targetID)
	if err != nil {
		board.KRAs = Failed[[]KRAGroup](err)
		return board, nil
	}
	board.KRAs = LoadedList(groups)
	board.Summary = performance.Summarize(goals, s.now())
	return board, nil
}

func (s *Service) groupKRAs(kras []performance.KRA, ownerID string) ([]KRAGroup, []performance.Goal, error) {
	now := s.now()
	groups := make([]KRAGroup, 0, len(kras))
	all := make([]performance.Goal, 0)
	for i, kra := range kras {
		goals, err := performance.MapKRAGoals(kra, kras, ownerID, now)
		if err != nil {
			return nil, nil, fmt.Errorf("map goals: %w", err)
		}
		groups = append(groups, KRAGroup{
			ID:     kra.ID,
			Name:   kra.Name,
			Pillar: performance.PillarForIndex(i),
			Goals:  goals,
		})
		all = append(all, goals...)
	}
	return groups, all, nil
}

func (s *Service) teammates(ctx context.Context) access.ReporteeSet {
	page, err := s.backend.ListEmployees(ctx, apiclient.DefaultEmployeeQuery())
	if err != nil {
		return access.NewReporteeSet()
	}
	return access.ReporteeSetFromEmployees(page.Employees)
}

// TeamMember is an employee row with the viewer's permissions on it.
type TeamMember struct {
	performance.Employee
	DisplayName string             `json:"displayName"`
	Avatar      string             `json:"avatar"`
	Permissions access.Permissions `json:"permissions"`
}

type TeamBoardView struct {
	Direct    Loadable[[]TeamMember] `json:"direct"`
	Indirect  []TeamMember           `json:"indirect"`
	Teammates Loadable[[]TeamMember] `json:"teammates"`
}

// TeamBoard lists the viewer's direct reportees, one level of indirect
// reportees for display, and for employees their read-only team.
func (s *Service) TeamBoard(ctx context.Context) (TeamBoardView, error) {
	if err := s.require(auth.PermTeamRead); err != nil {
		return TeamBoardView{}, err
	}
	board := TeamBoardView{
		Direct:    LoadedList[TeamMember](nil),
		Indirect:  []TeamMember{},
		Teammates: LoadedList[TeamMember](nil),
	}

	if s.viewer.Role == auth.RoleEmployee {
		var page Loadable[performance.EmployeePage]
		composer := NewComposer(ctx)
		FetchValue(composer, &page, func(ctx context.Context) (performance.EmployeePage, error) {
			return s.backend.ListEmployees(ctx, apiclient.DefaultEmployeeQuery())
		}, nil)
		if err := composer.Wait(); err != nil {
			return TeamBoardView{}, err
		}
		data, err := page.Result()
		if err != nil {
			board.Teammates = Failed[[]TeamMember](err)
			return board, nil
		}
		mates := make([]performance.Employee, 0, len(data.Employees))
		for _, employee := range data.Employees {
			if employee.Key() != s.viewer.ID {
				mates = append(mates, employee)
			}
		}
		policy := access.NewPolicy(s.viewer, access.NewReporteeSet()).WithTeammates(access.ReporteeSetFromEmployees(mates))
		board.Teammates = LoadedList(members(policy, mates))
		return board, nil
	}

	direct, err := s.backend.ListReportees(ctx, s.viewer.ID)
	if err != nil {
		board.Direct = Failed[[]TeamMember](err)
		return board, nil
	}
	policy := access.NewPolicy(s.viewer, access.ReporteeSetFromEmployees(direct))
	board.Direct = LoadedList(members(policy, direct))
	board.Indirect = members(policy, access.IndirectReportees(ctx, s.backend, direct))
	return board, ctx.Err()
}

func members(policy access.Policy, employees []performance.Employee) []TeamMember {
	out := make([]TeamMember, 0, len(employees))
	for _, employee := range employees {
		name := employee.DisplayName()
		out = append(out, TeamMember{
			Employee:    employee,
			DisplayName: name,
			Avatar:      auth.Initials(name),
			Permissions: policy.Permissions(employee.Key()),
		})
	}
	return out
}

// DirectoryFilter narrows the employee directory. Role filters only apply
// to hr viewers.
type DirectoryFilter struct {
	Role   auth.Role
	Search string
	Page   int
}

type DirectoryView struct {
	Employees Loadable[[]TeamMember]   `json:"employees"`
	Metadata  performance.PageMetadata `json:"metadata"`
}

func (s *Service) Directory(ctx context.Context, filter DirectoryFilter) (DirectoryView, error) {
	if err := s.require(auth.PermDirectoryRead); err != nil {
		return DirectoryView{}, err
	}
	query := apiclient.DefaultEmployeeQuery()
	query.Search = filter.Search
	if filter.Page > 0 {
		query.Page = filter.Page
	}
	if s.viewer.Role == auth.RoleHR && filter.Role != "" {
		query.Role = auth.DirectoryRoleFilter(filter.Role)
	}

	var (
		view   DirectoryView
		page   Loadable[performance.EmployeePage]
		policy access.Policy
	)
	composer := NewComposer(ctx)
	FetchValue(composer, &page, func(ctx context.Context) (performance.EmployeePage, error) {
		return s.backend.ListEmployees(ctx, query)
	}, nil)
	composer.Go(func(ctx context.Context) {
		policy = s.Policy(ctx)
	})
	if err := composer.Wait(); err != nil {
		return DirectoryView{}, err
	}

	data, err := page.Result()
	if err != nil {
		view.Employees = Failed[[]TeamMember](err)
		return view, nil
	}
	view.Employees = LoadedList(members(policy, data.Employees))
	view.Metadata = data.Metadata
	return view, nil
}

type FeedbackCenterView struct {
	Received Loadable[[]performance.FeedbackCenterItem] `json:"received"`
	Given    Loadable[[]performance.FeedbackCenterItem] `json:"given"`
}

func (s *Service) FeedbackCenter(ctx context.Context) (FeedbackCenterView, error) {
	if err := s.require(auth.PermFeedbackRead); err != nil {
		return FeedbackCenterView{}, err
	}
	var view FeedbackCenterView
	composer := NewComposer(ctx)
	Fetch(composer, &view.Received, func(ctx context.Context) ([]performance.FeedbackCenterItem, error) {
		items, err := s.backend.FeedbackReceived(ctx)
		return redact(items), err
	})
	Fetch(composer, &view.Given, s.backend.FeedbackGiven)
	if err := composer.Wait(); err != nil {
		return FeedbackCenterView{}, err
	}
	return view, nil
}

// GoalFeedback lists feedback on one goal; anonymous providers are hidden.
func (s *Service) GoalFeedback(ctx context.Context, goalID string) (Loadable[[]performance.Feedback], error) {
	if err := s.require(auth.PermFeedbackRead); err != nil {
		return Loadable[[]performance.Feedback]{}, err
	}
	items, err := s.backend.FeedbackForGoal(ctx, goalID)
	if err != nil {
		return Failed[[]performance.Feedback](err), nil
	}
	for i := range items {
		if items[i].IsAnonymous {
			items[i].Provider = nil
		}
	}
	return LoadedList(items), nil
}

func redact(items []performance.FeedbackCenterItem) []performance.FeedbackCenterItem {
	for i := range items {
		items[i] = items[i].Redacted()
	}
	return items
}

type PendingRequestsView struct {
	ToApprove Loadable[[]performance.DueDateChangeRequest] `json:"toApprove"`
	Created   Loadable[[]performance.DueDateChangeRequest] `json:"created"`
}

// PendingRequests lists due-date requests awaiting the viewer's decision
// and the ones the viewer created.
func (s *Service) PendingRequests(ctx context.Context) (PendingRequestsView, error) {
	if err := s.require(auth.PermDueDateRequest); err != nil {
		return PendingRequestsView{}, err
	}
	view := PendingRequestsView{ToApprove: LoadedList[performance.DueDateChangeRequest](nil)}
	composer := NewComposer(ctx)
	if auth.HasPermission(s.viewer.Role, auth.PermDueDateApprove) {
		Fetch(composer, &view.ToApprove, s.backend.ListDueDateRequests)
	}
	Fetch(composer, &view.Created, s.backend.ListMyDueDateRequests)
	if err := composer.Wait(); err != nil {
		return PendingRequestsView{}, err
	}
	if view.ToApprove.IsLoaded() {
		s.ledger.Observe(view.ToApprove.Data)
	}
	return view, nil
}

type SyncStatusView struct {
	History Loadable[[]performance.SyncHistoryRecord] `json:"history"`
	CanRun  bool                                      `json:"canRun"`
}

func (s *Service) SyncStatus(ctx context.Context) (SyncStatusView, error) {
	if err := s.require(auth.PermSyncRead); err != nil {
		return SyncStatusView{}, err
	}
	view := SyncStatusView{CanRun: auth.HasPermission(s.viewer.Role, auth.PermSyncRun)}
	history, err := s.backend.SyncHistory(ctx)
	if err != nil {
		view.History = Failed[[]performance.SyncHistoryRecord](err)
		return view, nil
	}
	view.History = LoadedList(history.History)
	return view, nil
}
