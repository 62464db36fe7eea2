package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/thesismatch/internal/app/models"
	appRepos "github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	admin := AdminAccount{Email: "Admin@Univ.Example", Password: "admin1234", FirstName: "Ada", LastName: "Admin"}

	t.Run("should seed stages and the admin once", func(t *testing.T) {
		repos := appRepos.NewMemoryRepositories()
		require.NoError(t, CreateDefaultData(ctx, repos, hasher, admin, zerolog.Nop()))
		require.NoError(t, CreateDefaultData(ctx, repos, hasher, admin, zerolog.Nop()))

		stages, err := repos.Stages.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, len(appModels.DefaultStages()), stages)

		users, err := repos.Users.FindAll(ctx, nil)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "admin@univ.example", users[0].Email)
		assert.Equal(t, appModels.RoleAdmin, users[0].Role)
		assert.True(t, hasher.Check(users[0].PasswordHash, "admin1234"))
	})

	t.Run("should keep an edited catalog", func(t *testing.T) {
		repos := appRepos.NewMemoryRepositories()
		_, err := repos.Stages.Create(ctx, appModels.WorkflowStage{Code: "CUSTOM", Label: "Custom", Order: 1, Active: true})
		require.NoError(t, err)

		require.NoError(t, CreateDefaultData(ctx, repos, hasher, AdminAccount{}, zerolog.Nop()))

		stages, err := repos.Stages.FindAll(ctx, nil)
		require.NoError(t, err)
		require.Len(t, stages, 1)
		assert.Equal(t, "CUSTOM", stages[0].Code)

		n, err := repos.Users.Count(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
