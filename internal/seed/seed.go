package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/thesismatch/internal/app/models"
	appRepos "github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/auth"
)

// AdminAccount is the administrator created on first start
type AdminAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateDefaultData seeds the workflow catalog when it is empty and the
// administrator account when it does not exist yet. Failures are collected so
// one bad record does not stop the rest.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, hasher *auth.PasswordHasher, admin AdminAccount, lgr zerolog.Logger) error {
	var finalErr error

	if err := createDefaultStages(ctx, repos, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default workflow stages")
		finalErr = errors.Join(finalErr, err)
	}

	if err := createAdmin(ctx, repos, hasher, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating administrator account")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func createDefaultStages(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	n, err := repos.Stages.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("error counting workflow stages: %w", err)
	}
	if n > 0 {
		lgr.Debug().Int("stages", n).Msg("Workflow catalog already present")
		return nil
	}

	var finalErr error
	for _, stage := range appModels.DefaultStages() {
		if _, err := repos.Stages.Create(ctx, stage); err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			finalErr = errors.Join(finalErr, fmt.Errorf("error creating stage %s: %w", stage.Code, err))
		}
	}
	lgr.Info().Msg("Default workflow stages created")
	return finalErr
}

func createAdmin(ctx context.Context, repos *appRepos.Repositories, hasher *auth.PasswordHasher, admin AdminAccount, lgr zerolog.Logger) error {
	email := appModels.NormalizeEmail(admin.Email)
	if email == "" || admin.Password == "" {
		lgr.Warn().Msg("No administrator credentials configured, skipping admin seed")
		return nil
	}

	_, err := repos.Users.FindOne(ctx, func(u appModels.User) bool { return appModels.NormalizeEmail(u.Email) == email })
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("error checking administrator account: %w", err)
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing administrator password: %w", err)
	}
	if _, err := repos.Users.Create(ctx, appModels.User{
		Email:        email,
		PasswordHash: hash,
		Role:         appModels.RoleAdmin,
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
	}); err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		return fmt.Errorf("error creating administrator account: %w", err)
	}

	lgr.Info().Str("email", email).Msg("Administrator account created")
	return nil
}
