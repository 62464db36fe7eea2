package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
)

func TestThesisService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.svc.Theses

	archive := func(t *testing.T, title, author string, year int, supervisor string, domains ...string) models.ThesisRecord {
		t.Helper()
		th, err := svc.CreateThesis(ctx, &dto.CreateThesisRequest{
			Title: title, Author: author, Year: year, Supervisor: supervisor, Domains: domains,
		})
		require.NoError(t, err)
		return *th
	}

	radio := archive(t, "Community radio and local elections", "Fatou Ndiaye", 2021, "Jean Martin", "Médias", "Politique")
	archive(t, "Trust in televised news", "Omar Ba", 2022, "Jean Martin", "Journalisme")
	archive(t, "Vaccination campaigns online", "Lina Sy", 2021, "Marie Curie", "Santé publique", "médias sociaux")

	t.Run("should list the most recent year first", func(t *testing.T) {
		all, err := svc.ListTheses(ctx, dto.ThesisFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, 2022, all[0].Year)
		assert.Equal(t, "Community radio and local elections", all[1].Title)
		assert.Equal(t, "Vaccination campaigns online", all[2].Title)
	})

	t.Run("should filter by year, supervisor, domain and text", func(t *testing.T) {
		cases := []struct {
			name   string
			filter dto.ThesisFilter
			want   int
		}{
			{"year", dto.ThesisFilter{Year: 2021}, 2},
			{"supervisor part, any case", dto.ThesisFilter{Supervisor: "martin"}, 2},
			{"domain part", dto.ThesisFilter{Domain: " MÉDIAS "}, 2},
			{"text in author", dto.ThesisFilter{Q: "ndiaye"}, 1},
			{"text in title", dto.ThesisFilter{Q: "NEWS"}, 1},
			{"combined", dto.ThesisFilter{Year: 2021, Supervisor: "curie", Domain: "santé"}, 1},
			{"nothing", dto.ThesisFilter{Year: 1999}, 0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				got, err := svc.ListTheses(ctx, tc.filter)
				require.NoError(t, err)
				assert.Len(t, got, tc.want)
			})
		}
	})

	t.Run("should update and delete an entry", func(t *testing.T) {
		mention := "Très bien"
		grade := 16.5
		updated, err := svc.UpdateThesis(ctx, radio.ID, &dto.UpdateThesisRequest{
			Mention: &mention, Grade: &grade, Domains: &[]string{"Radio", "radio", " "},
		})
		require.NoError(t, err)
		assert.Equal(t, "Community radio and local elections", updated.Title)
		require.NotNil(t, updated.Mention)
		assert.Equal(t, mention, *updated.Mention)
		assert.Equal(t, models.Domains{"Radio"}, updated.Domains)

		blank := "  "
		_, err = svc.UpdateThesis(ctx, radio.ID, &dto.UpdateThesisRequest{Author: &blank})
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		stored, err := svc.GetThesis(ctx, radio.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fatou Ndiaye", stored.Author)

		_, err = svc.UpdateThesis(ctx, "missing", &dto.UpdateThesisRequest{Mention: &mention})
		assert.True(t, errors.Is(err, apperrors.ErrThesisNotFound))

		require.NoError(t, svc.DeleteThesis(ctx, radio.ID))
		_, err = svc.GetThesis(ctx, radio.ID)
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
		assert.True(t, errors.Is(svc.DeleteThesis(ctx, radio.ID), apperrors.ErrThesisNotFound))
	})

	t.Run("should import complete rows and report the others", func(t *testing.T) {
		before, err := env.repos.Theses.Count(ctx, nil)
		require.NoError(t, err)

		res, err := svc.ImportTheses(ctx, []dto.ThesisImportRow{
			{Title: "Podcasts and youth", Author: "Awa Diallo", Year: 2023, Supervisor: "Jean Martin", Domains: []string{"Médias"}},
			{Title: "No author", Year: 2023, Supervisor: "Jean Martin"},
			{Title: "Street art", Author: "Ben Sow", Year: 2020, Supervisor: "Marie Curie"},
			{Title: "No year", Author: "X", Supervisor: "Y"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Created)
		require.Len(t, res.Errors, 2)
		assert.Equal(t, 1, res.Errors[0].Index)
		assert.Equal(t, "No author", res.Errors[0].Row.Title)
		assert.Contains(t, res.Errors[0].Reason, "missing required fields")
		assert.Equal(t, 3, res.Errors[1].Index)

		after, err := env.repos.Theses.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, before+2, after)

		_, err = svc.ImportTheses(ctx, nil)
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	})
}
