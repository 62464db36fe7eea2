package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
)

// StatsService computes the administration dashboard figures
type StatsService interface {
	Overview(ctx context.Context) (*dto.OverviewStats, error)
	SupervisorLoads(ctx context.Context) ([]dto.SupervisorStats, error)
	Domains(ctx context.Context) ([]dto.DomainStat, error)
}

type statsServiceImpl struct {
	students    recordstore.Store[models.Student]
	supervisors recordstore.Store[models.Supervisor]
	documents   recordstore.Store[models.Document]
}

// NewStatsService creates a new StatsService
func NewStatsService(repos *repositories.Repositories) StatsService {
	return &statsServiceImpl{
		students:    repos.Students,
		supervisors: repos.Supervisors,
		documents:   repos.Documents,
	}
}

func (s *statsServiceImpl) load(ctx context.Context) ([]models.Student, []models.Supervisor, error) {
	students, err := s.students.FindAll(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error retrieving students: %w", err)
	}
	supervisors, err := s.supervisors.FindAll(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error retrieving supervisors: %w", err)
	}
	return students, supervisors, nil
}

func (s *statsServiceImpl) Overview(ctx context.Context) (*dto.OverviewStats, error) {
	students, supervisors, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	documents, err := s.documents.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error counting documents: %w", err)
	}

	stats := &dto.OverviewStats{
		ByStage:   map[string]int{},
		ByStatus:  map[string]int{},
		Documents: documents,
	}

	stats.Students.Total = len(students)
	for _, st := range students {
		if st.HasSupervisor() {
			stats.Students.Assigned++
		}
		stats.ByStage[st.Stage]++
		stats.ByStatus[string(st.Status)]++
	}
	stats.Students.Unassigned = stats.Students.Total - stats.Students.Assigned

	stats.Supervisors.Total = len(supervisors)
	for _, sup := range supervisors {
		if sup.Available {
			stats.Supervisors.Available++
		}
		if !sup.HasCapacity() {
			stats.Supervisors.Full++
		}
		stats.Capacity.TotalQuota += sup.MaxQuota
		stats.Capacity.TotalLoad += sup.CurrentLoad
	}
	if stats.Capacity.TotalQuota > 0 {
		stats.Capacity.FillRate = int(math.Round(float64(stats.Capacity.TotalLoad) * 100 / float64(stats.Capacity.TotalQuota)))
	}
	return stats, nil
}

// SupervisorLoads lists supervisors from the fullest to the emptiest
func (s *statsServiceImpl) SupervisorLoads(ctx context.Context) ([]dto.SupervisorStats, error) {
	students, supervisors, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	referencing := make(map[string]int)
	for _, st := range students {
		if st.HasSupervisor() {
			referencing[*st.SupervisorID]++
		}
	}

	out := make([]dto.SupervisorStats, 0, len(supervisors))
	for _, sup := range supervisors {
		out = append(out, dto.SupervisorStats{
			ID:          sup.ID,
			Name:        sup.FullName(),
			Email:       sup.Email,
			MaxQuota:    sup.MaxQuota,
			CurrentLoad: sup.CurrentLoad,
			FillRate:    sup.FillRate(),
			Available:   sup.Available,
			Students:    referencing[sup.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FillRate != out[j].FillRate {
			return out[i].FillRate > out[j].FillRate
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Domains counts how many students and supervisors use each tag. Tags are
// grouped case-insensitively and shown with the first casing seen.
func (s *statsServiceImpl) Domains(ctx context.Context) ([]dto.DomainStat, error) {
	students, supervisors, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []dto.DomainStat
	entry := func(tag string) *dto.DomainStat {
		key := strings.ToLower(strings.TrimSpace(tag))
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, dto.DomainStat{Domain: strings.TrimSpace(tag)})
		}
		return &out[i]
	}

	for _, st := range students {
		for _, tag := range st.Domains {
			entry(tag).Students++
		}
	}
	for _, sup := range supervisors {
		for _, tag := range sup.Domains {
			entry(tag).Supervisors++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].Students+out[i].Supervisors, out[j].Students+out[j].Supervisors
		if ti != tj {
			return ti > tj
		}
		return strings.ToLower(out[i].Domain) < strings.ToLower(out[j].Domain)
	})
	if out == nil {
		out = []dto.DomainStat{}
	}
	return out, nil
}
