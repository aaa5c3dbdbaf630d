package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/studyhub-dev/studyhub/internal/models"
	"github.com/studyhub-dev/studyhub/internal/repository"
	"gorm.io/datatypes"
)

const (
	DefaultMaxMembers = 5
	MinMaxMembers     = 2
)

// SkillOptions feed the create form. Selections are not stored.
var SkillOptions = []string{
	"Programming",
	"Design",
	"Writing",
	"Research",
	"Data Analysis",
	"Presentation",
}

type CreateProjectInput struct {
	Title       string
	Description string
	Skills      []string // display only, discarded
	MaxMembers  int      // never enforced
}

type ProjectListing struct {
	Project     models.Project
	CreatorName string
	Members     []repository.MemberRow
	IsMember    bool
}

type MyProject struct {
	Project repository.ProjectWithCount
	Members []repository.MemberRow
}

type JoinResult struct {
	Project       *models.Project
	AlreadyMember bool
}

type ProjectService struct {
	clock
	projects repository.ProjectRepository
}

func NewProjectService(projects repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		clock:    systemClock(),
		projects: projects,
	}
}

// Create stores the project and makes its creator the first member.
func (s *ProjectService) Create(ctx context.Context, userID uint, in CreateProjectInput) (*models.Project, error) {
	now := s.now()

	project := &models.Project{
		Title:       in.Title,
		Description: in.Description,
		CreatedBy:   userID,
		CreatedDate: datatypes.Date(now),
	}

	if err := s.projects.CreateWithOwner(ctx, project, now); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return project, nil
}

func (s *ProjectService) Browse(ctx context.Context, userID uint, search string) ([]ProjectListing, error) {
	projects, err := s.projects.Search(ctx, search)

	if err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}

	ids := lo.Map(projects, func(p models.Project, _ int) uint { return p.ID })

	rows, err := s.projects.ListMembers(ctx, ids)

	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	byProject := lo.GroupBy(rows, func(row repository.MemberRow) uint { return row.ProjectID })

	listings := make([]ProjectListing, 0, len(projects))

	for _, project := range projects {
		members := byProject[project.ID]

		listings = append(listings, ProjectListing{
			Project:     project,
			CreatorName: project.Creator.Name,
			Members:     members,
			IsMember: lo.ContainsBy(members, func(m repository.MemberRow) bool {
				return m.UserID == userID
			}),
		})
	}

	return listings, nil
}

// Join adds the user to the project. Joining twice is a no-op.
func (s *ProjectService) Join(ctx context.Context, userID, projectID uint) (*JoinResult, error) {
	project, err := s.projects.GetByID(ctx, projectID)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	added, err := s.projects.AddMember(ctx, project.ID, userID, s.now())

	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	return &JoinResult{Project: project, AlreadyMember: !added}, nil
}

func (s *ProjectService) Mine(ctx context.Context, userID uint) ([]MyProject, error) {
	projects, err := s.projects.ListForMember(ctx, userID)

	if err != nil {
		return nil, fmt.Errorf("list projects for member: %w", err)
	}

	ids := lo.Map(projects, func(p repository.ProjectWithCount, _ int) uint { return p.ID })

	rows, err := s.projects.ListMembers(ctx, ids)

	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	byProject := lo.GroupBy(rows, func(row repository.MemberRow) uint { return row.ProjectID })

	return lo.Map(projects, func(p repository.ProjectWithCount, _ int) MyProject {
		return MyProject{Project: p, Members: byProject[p.ID]}
	}), nil
}
