package service

import (
	"context"
	"slices"

	"github.com/Skotchmaster/ezwallet/internal/apperr"
	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	"github.com/Skotchmaster/ezwallet/pkg/events"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
)

var (
	ErrGroupExists    = apperr.Conflict("Group already exists")
	ErrGroupNotFound  = apperr.NotFound("Group not found")
	ErrAlreadyInGroup = apperr.Conflict("You are already in a group")
	ErrNobodyToAdd    = apperr.Validation("All the members are already in a group or do not exist")
	ErrNobodyToRemove = apperr.Validation("All the members are not in the group or do not exist")
	ErrSingleMember   = apperr.Validation("Cannot remove members from a group with only one member")
)

type GroupStoreWithUsers interface {
	GroupStore
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsersByEmails(ctx context.Context, emails []string) ([]models.User, error)
}

type GroupService struct {
	Store  GroupStoreWithUsers
	Events events.Publisher
}

func NewGroupService(store GroupStoreWithUsers, pub events.Publisher) *GroupService {
	return &GroupService{Store: store, Events: pub}
}

// Create makes a group with the caller as first member plus every listed
// user that exists and is not grouped yet.
func (s *GroupService) Create(ctx context.Context, callerEmail string, req transport.CreateGroupRequest) (*transport.GroupChange, error) {
	l := logging.FromContext(ctx).With("svc", "groups.create")

	if req.Name == nil || req.MemberEmails == nil {
		return nil, ErrMissingAttributes
	}
	name := *req.Name
	if transport.Blank(name) || len(*req.MemberEmails) == 0 {
		return nil, ErrEmptyAttributes
	}
	if _, err := s.Store.FindGroupByName(ctx, name); err == nil {
		l.Warn("create_group_failed", "status", 400, "reason", "group exists", "group", name)
		return nil, ErrGroupExists
	} else if err := ignoreNotFound(err); err != nil {
		return nil, internal(ctx, "create_group_failed", err)
	}

	caller, err := s.Store.FindUserByEmail(ctx, callerEmail)
	if err != nil {
		return nil, notFoundOr(ctx, err, ErrUserNotFound, "create_group_failed")
	}
	grouped, err := s.Store.GroupedEmails(ctx, []string{caller.Email})
	if err != nil {
		return nil, internal(ctx, "create_group_failed", err)
	}
	if len(grouped) > 0 {
		l.Warn("create_group_failed", "status", 400, "reason", "caller already grouped")
		return nil, ErrAlreadyInGroup
	}
	if err := validEmails(*req.MemberEmails); err != nil {
		return nil, err
	}

	candidates := slices.DeleteFunc(dedupe(*req.MemberEmails), func(e string) bool { return e == caller.Email })
	toAdd, already, missing, err := s.classifyNew(ctx, candidates)
	if err != nil {
		return nil, internal(ctx, "create_group_failed", err)
	}
	if len(toAdd) == 0 {
		l.Warn("create_group_failed", "status", 400, "reason", "nobody to add")
		return nil, ErrNobodyToAdd
	}

	g := &models.Group{Name: name}
	g.Members = append(g.Members, models.GroupMember{Email: caller.Email, UserID: caller.ID, Position: 0})
	for i, u := range toAdd {
		g.Members = append(g.Members, models.GroupMember{Email: u.Email, UserID: u.ID, Position: i + 1})
	}
	if err := s.Store.CreateGroup(ctx, g); err != nil {
		return nil, internal(ctx, "create_group_failed", err)
	}

	view := GroupView(*g)
	publish(ctx, s.Events, events.TopicGroups, g.Name, "group_created", view)
	l.Info("create_group_success", "group", g.Name, "members", len(g.Members))
	return &transport.GroupChange{
		Group:           view,
		AlreadyInGroup:  transport.Members(already),
		MembersNotFound: transport.Members(missing),
	}, nil
}

func (s *GroupService) List(ctx context.Context) ([]transport.GroupView, error) {
	groups, err := s.Store.ListGroups(ctx)
	if err != nil {
		return nil, internal(ctx, "list_groups_failed", err)
	}
	out := make([]transport.GroupView, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupView(g))
	}
	return out, nil
}

// Find loads a group; handlers use its member emails for authorization.
func (s *GroupService) Find(ctx context.Context, name string) (*models.Group, error) {
	g, err := s.Store.FindGroupByName(ctx, name)
	if err != nil {
		return nil, notFoundOr(ctx, err, ErrGroupNotFound, "find_group_failed")
	}
	return g, nil
}

func (s *GroupService) AddMembers(ctx context.Context, g *models.Group, req transport.EmailsRequest) (*transport.GroupChange, error) {
	l := logging.FromContext(ctx).With("svc", "groups.add", "group", g.Name)

	if req.Emails == nil {
		return nil, ErrMissingAttributes
	}
	if len(*req.Emails) == 0 {
		return nil, ErrEmptyAttributes
	}
	if err := validEmails(*req.Emails); err != nil {
		return nil, err
	}

	toAdd, already, missing, err := s.classifyNew(ctx, dedupe(*req.Emails))
	if err != nil {
		return nil, internal(ctx, "add_members_failed", err)
	}
	if len(toAdd) == 0 {
		l.Warn("add_members_failed", "status", 400, "reason", "nobody to add")
		return nil, ErrNobodyToAdd
	}

	members := make([]models.GroupMember, 0, len(toAdd))
	for _, u := range toAdd {
		members = append(members, models.GroupMember{Email: u.Email, UserID: u.ID})
	}
	if err := s.Store.AddMembers(ctx, g.ID, members); err != nil {
		return nil, internal(ctx, "add_members_failed", err)
	}

	updated, err := s.Find(ctx, g.Name)
	if err != nil {
		return nil, err
	}
	view := GroupView(*updated)
	publish(ctx, s.Events, events.TopicGroups, g.Name, "group_members_added", view)
	l.Info("add_members_success", "added", len(members))
	return &transport.GroupChange{
		Group:           view,
		AlreadyInGroup:  transport.Members(already),
		MembersNotFound: transport.Members(missing),
	}, nil
}

// RemoveMembers drops the listed members. The first member always stays.
func (s *GroupService) RemoveMembers(ctx context.Context, g *models.Group, req transport.EmailsRequest) (*transport.GroupRemoval, error) {
	l := logging.FromContext(ctx).With("svc", "groups.remove", "group", g.Name)

	if req.Emails == nil {
		return nil, ErrMissingAttributes
	}
	if len(*req.Emails) == 0 {
		return nil, ErrEmptyAttributes
	}
	if err := validEmails(*req.Emails); err != nil {
		return nil, err
	}
	if len(g.Members) <= 1 {
		l.Warn("remove_members_failed", "status", 400, "reason", "single member")
		return nil, ErrSingleMember
	}

	emails := dedupe(*req.Emails)
	users, err := s.Store.FindUsersByEmails(ctx, emails)
	if err != nil {
		return nil, internal(ctx, "remove_members_failed", err)
	}
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.Email] = true
	}
	inGroup := make(map[string]bool, len(g.Members))
	for _, m := range g.Members {
		inGroup[m.Email] = true
	}

	var toRemove, notInGroup, missing []string
	for _, e := range emails {
		switch {
		case !known[e]:
			missing = append(missing, e)
		case !inGroup[e]:
			notInGroup = append(notInGroup, e)
		case e == g.Members[0].Email:
		default:
			toRemove = append(toRemove, e)
		}
	}
	if len(toRemove) == 0 {
		l.Warn("remove_members_failed", "status", 400, "reason", "nobody to remove")
		return nil, ErrNobodyToRemove
	}

	if err := s.Store.RemoveMembers(ctx, g.ID, toRemove); err != nil {
		return nil, internal(ctx, "remove_members_failed", err)
	}
	updated, err := s.Find(ctx, g.Name)
	if err != nil {
		return nil, err
	}
	view := GroupView(*updated)
	publish(ctx, s.Events, events.TopicGroups, g.Name, "group_members_removed", view)
	l.Info("remove_members_success", "removed", len(toRemove))
	return &transport.GroupRemoval{
		Group:           view,
		NotInGroup:      transport.Members(notInGroup),
		MembersNotFound: transport.Members(missing),
	}, nil
}

func (s *GroupService) Delete(ctx context.Context, req transport.NameRequest) error {
	if req.Name == nil {
		return ErrMissingAttributes
	}
	if transport.Blank(*req.Name) {
		return ErrEmptyAttributes
	}
	g, err := s.Find(ctx, *req.Name)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteGroup(ctx, g.ID); err != nil {
		return notFoundOr(ctx, err, ErrGroupNotFound, "delete_group_failed")
	}
	publish(ctx, s.Events, events.TopicGroups, g.Name, "group_deleted", map[string]string{"name": g.Name})
	logging.FromContext(ctx).Info("delete_group_success", "group", g.Name)
	return nil
}

// classifyNew splits emails into users that can join a group, emails already
// grouped and emails with no user.
func (s *GroupService) classifyNew(ctx context.Context, emails []string) (toAdd []models.User, already, missing []string, err error) {
	users, err := s.Store.FindUsersByEmails(ctx, emails)
	if err != nil {
		return nil, nil, nil, err
	}
	grouped, err := s.Store.GroupedEmails(ctx, emails)
	if err != nil {
		return nil, nil, nil, err
	}

	byEmail := make(map[string]models.User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	for _, e := range emails {
		u, ok := byEmail[e]
		switch {
		case !ok:
			missing = append(missing, e)
		case slices.Contains(grouped, e):
			already = append(already, e)
		default:
			toAdd = append(toAdd, u)
		}
	}
	return toAdd, already, missing, nil
}

// MemberEmails lists the emails of a group's members in order.
func MemberEmails(g *models.Group) []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		out = append(out, m.Email)
	}
	return out
}

func GroupView(g models.Group) transport.GroupView {
	return transport.GroupView{Name: g.Name, Members: transport.Members(MemberEmails(&g))}
}

func validEmails(emails []string) error {
	for _, e := range emails {
		if transport.Blank(e) {
			return ErrEmptyAttributes
		}
		if !transport.ValidEmail(e) {
			return ErrInvalidEmail
		}
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
