package handlers

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/samber/lo"
	"github.com/studyhub-dev/studyhub/internal/models"
	"github.com/studyhub-dev/studyhub/internal/repository"
	"github.com/studyhub-dev/studyhub/internal/services"
	"github.com/studyhub-dev/studyhub/internal/types"
	"github.com/studyhub-dev/studyhub/internal/views"
	"gorm.io/datatypes"
)

// Dates and timestamps leave the API in the same text form the screens show.
var copyOptions = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: datatypes.Date{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				return views.FormatDate(src.(datatypes.Date)), nil
			},
		},
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				return views.FormatDateTime(src.(time.Time)), nil
			},
		},
	},
}

func toUserResponse(user *models.User) (types.UserResponse, error) {
	var response types.UserResponse
	err := copier.CopyWithOption(&response, user, copyOptions)
	return response, err
}

func toMemberResponses(rows []repository.MemberRow) ([]types.MemberResponse, error) {
	response := make([]types.MemberResponse, 0, len(rows))
	err := copier.CopyWithOption(&response, &rows, copyOptions)
	return response, err
}

func toMessageResponses(messages []repository.MessageView) ([]types.MessageResponse, error) {
	response := make([]types.MessageResponse, 0, len(messages))
	err := copier.CopyWithOption(&response, &messages, copyOptions)
	return response, err
}

func toProjectResponse(project *models.Project) (types.ProjectResponse, error) {
	var response types.ProjectResponse
	err := copier.CopyWithOption(&response, project, copyOptions)
	response.Members = []types.MemberResponse{}
	return response, err
}

func toListingResponse(listing services.ProjectListing) (types.ProjectResponse, error) {
	response, err := toProjectResponse(&listing.Project)

	if err != nil {
		return response, err
	}

	if response.Members, err = toMemberResponses(listing.Members); err != nil {
		return response, err
	}

	response.CreatorName = listing.CreatorName
	response.MemberCount = len(listing.Members)
	response.IsMember = listing.IsMember

	return response, nil
}

func toMyProjectResponse(mine services.MyProject) (types.ProjectResponse, error) {
	var response types.ProjectResponse

	if err := copier.CopyWithOption(&response, &mine.Project, copyOptions); err != nil {
		return response, err
	}

	members, err := toMemberResponses(mine.Members)

	if err != nil {
		return response, err
	}

	response.Members = members
	response.IsMember = true

	return response, nil
}

func toCommunityResponses(users []models.User) []types.CommunityMemberResponse {
	return lo.Map(users, func(user models.User, _ int) types.CommunityMemberResponse {
		return types.CommunityMemberResponse{
			Name:        user.Name,
			Institution: user.Institution,
			Role:        views.RoleBadge(user.Role),
		}
	})
}
