package handlers

import (
	"context"

	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/pkg/dto"
)

// registrationStatus works out how far through registration user is.
// The basic profile comes first, then the profile of the chosen category.
func registrationStatus(ctx context.Context, profiles ProfileServiceInterface, user *models.User) (dto.RegistrationStatus, *models.ProfileDetails, error) {
	details, err := profiles.GetDetails(ctx, user)
	if err != nil {
		return dto.RegistrationStatus{}, nil, err
	}

	basic := user.HasBasicProfile()
	category := details.HasCategoryProfile()

	status := dto.RegistrationStatus{
		Stage: dto.StageComplete,
		IsProfileComplete: dto.ProfileCompletion{
			BasicProfile:    basic,
			CategoryProfile: &category,
		},
	}
	switch {
	case !basic:
		status.Stage = dto.StageBasicProfile
	case !category:
		status.Stage = dto.StageCategoryProfile
	}
	return status, details, nil
}
