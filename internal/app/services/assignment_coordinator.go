package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/filestorage"
	"github.com/yigit/thesismatch/internal/pkg/locker"
	"github.com/yigit/thesismatch/internal/pkg/matching"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
	"github.com/yigit/thesismatch/internal/pkg/websocket"
)

// maxLockAttempts bounds how often a transition re-locks when the student's
// supervisor changed between the first read and the lock.
const maxLockAttempts = 3

// errBusy is returned when the records of a transition stay locked
var errBusy = apperrors.NewConflictError("another assignment on these records is in progress, retry shortly")

// AssignmentCoordinator is the only writer of a student's supervisor
// reference and a supervisor's current load. Every transition keeps
// supervisor.currentLoad equal to the number of students referencing it.
type AssignmentCoordinator interface {
	Assign(ctx context.Context, studentID, supervisorID string) (*dto.AssignmentResponse, error)
	Unassign(ctx context.Context, studentID string) (*dto.AssignmentResponse, error)
	DeleteStudent(ctx context.Context, studentID string) error
	DeleteSupervisor(ctx context.Context, supervisorID string) error
	Reconcile(ctx context.Context) (*dto.ReconcileResponse, error)
}

type assignmentCoordinatorImpl struct {
	students    recordstore.Store[models.Student]
	supervisors recordstore.Store[models.Supervisor]
	documents   recordstore.Store[models.Document]
	users       recordstore.Store[models.User]
	files       filestorage.FileStorage
	locker      locker.Locker
	lockWait    time.Duration
	events      websocket.Publisher
	logger      zerolog.Logger
}

// NewAssignmentCoordinator creates the coordinator. files may be nil when
// documents have no stored content, events when nobody follows the changes.
func NewAssignmentCoordinator(
	repos *repositories.Repositories,
	files filestorage.FileStorage,
	lk locker.Locker,
	lockWait time.Duration,
	events websocket.Publisher,
	logger zerolog.Logger,
) AssignmentCoordinator {
	if lk == nil {
		lk = locker.NewKeyedMutex()
	}
	if lockWait <= 0 {
		lockWait = 5 * time.Second
	}
	return &assignmentCoordinatorImpl{
		students:    repos.Students,
		supervisors: repos.Supervisors,
		documents:   repos.Documents,
		users:       repos.Users,
		files:       files,
		locker:      lk,
		lockWait:    lockWait,
		events:      events,
		logger:      logger.With().Str("component", "assignment").Logger(),
	}
}

func studentKey(id string) string    { return "student:" + id }
func supervisorKey(id string) string { return "supervisor:" + id }

// lock takes the student key first, then the supervisor keys in sorted order
func (c *assignmentCoordinatorImpl) lock(ctx context.Context, studentID string, supervisorIDs ...string) (func(), error) {
	keys := make([]string, 0, len(supervisorIDs))
	for _, id := range supervisorIDs {
		if id != "" {
			keys = append(keys, supervisorKey(id))
		}
	}
	ordered := []string{}
	if studentID != "" {
		ordered = append(ordered, studentKey(studentID))
	}
	ordered = append(ordered, locker.SortedKeys(keys...)...)

	lockCtx, cancel := context.WithTimeout(ctx, c.lockWait)
	defer cancel()
	unlock, err := c.locker.Lock(lockCtx, ordered...)
	if err != nil {
		if errors.Is(err, locker.ErrLockTimeout) {
			return nil, fmt.Errorf("%w: %w", errBusy, err)
		}
		return nil, fmt.Errorf("failed to lock %v: %w", ordered, err)
	}
	return unlock, nil
}

func (c *assignmentCoordinatorImpl) findStudent(ctx context.Context, id string) (models.Student, error) {
	student, err := c.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return student, apperrors.ErrStudentNotFound
		}
		return student, fmt.Errorf("error loading student: %w", err)
	}
	return student, nil
}

func (c *assignmentCoordinatorImpl) findSupervisor(ctx context.Context, id string) (models.Supervisor, error) {
	supervisor, err := c.supervisors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return supervisor, apperrors.ErrSupervisorNotFound
		}
		return supervisor, fmt.Errorf("error loading supervisor: %w", err)
	}
	return supervisor, nil
}

func currentSupervisor(s models.Student) string {
	if s.HasSupervisor() {
		return *s.SupervisorID
	}
	return ""
}

// lockStudent loads the student and locks it together with its current
// supervisor and extra. The student is re-read under the lock; if its
// supervisor moved in between, the lock is retaken with the new key set.
func (c *assignmentCoordinatorImpl) lockStudent(ctx context.Context, studentID string, extra ...string) (models.Student, func(), error) {
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		seen, err := c.findStudent(ctx, studentID)
		if err != nil {
			return models.Student{}, nil, err
		}

		unlock, err := c.lock(ctx, studentID, append([]string{currentSupervisor(seen)}, extra...)...)
		if err != nil {
			return models.Student{}, nil, err
		}

		fresh, err := c.findStudent(ctx, studentID)
		if err != nil {
			unlock()
			return models.Student{}, nil, err
		}
		if currentSupervisor(fresh) == currentSupervisor(seen) {
			return fresh, unlock, nil
		}
		unlock()
	}
	return models.Student{}, nil, errBusy
}

// incrementLoad takes one slot. The checks run inside the record update, so
// they see the freshest quota and availability.
func (c *assignmentCoordinatorImpl) incrementLoad(ctx context.Context, supervisorID string) (models.Supervisor, error) {
	return c.supervisors.Update(ctx, supervisorID, func(s *models.Supervisor) error {
		if !s.Available {
			return apperrors.ErrSupervisorUnavailable
		}
		if !matching.Eligible(s.Candidate()) {
			return quotaError(*s)
		}
		s.CurrentLoad++
		return nil
	})
}

// restoreLoad adds a slot back without checks; used to undo a decrement
func (c *assignmentCoordinatorImpl) restoreLoad(ctx context.Context, supervisorID string) error {
	_, err := c.supervisors.Update(ctx, supervisorID, func(s *models.Supervisor) error {
		s.CurrentLoad++
		return nil
	})
	return err
}

// decrementLoad releases one slot, never going below zero
func (c *assignmentCoordinatorImpl) decrementLoad(ctx context.Context, supervisorID string) (models.Supervisor, error) {
	return c.supervisors.Update(ctx, supervisorID, func(s *models.Supervisor) error {
		if s.CurrentLoad <= 0 {
			c.logger.Warn().Str("supervisorID", supervisorID).Msg("Supervisor load already at zero on decrement")
			s.CurrentLoad = 0
			return nil
		}
		s.CurrentLoad--
		return nil
	})
}

func quotaError(s models.Supervisor) error {
	return apperrors.NewCustomError(apperrors.ErrQuotaReached,
		fmt.Sprintf("quota reached: %s already supervises %d of %d students", s.FullName(), s.CurrentLoad, s.MaxQuota)).
		WithDetails(map[string]interface{}{"currentLoad": s.CurrentLoad, "maxQuota": s.MaxQuota})
}

// undoLog collects compensating writes for a transition
type undoLog struct {
	steps []undoStep
}

type undoStep struct {
	name string
	fn   func(ctx context.Context) error
}

func (u *undoLog) push(name string, fn func(ctx context.Context) error) {
	u.steps = append(u.steps, undoStep{name: name, fn: fn})
}

// rollback runs the compensations newest first and joins their failures
// onto cause. It ignores the caller's cancellation.
func (c *assignmentCoordinatorImpl) rollback(ctx context.Context, u *undoLog, cause error) error {
	ctx = context.WithoutCancel(ctx)
	errs := []error{cause}
	for i := len(u.steps) - 1; i >= 0; i-- {
		step := u.steps[i]
		if err := step.fn(ctx); err != nil {
			c.logger.Error().Err(err).Str("step", step.name).Msg("Compensation failed, run reconcile to repair loads")
			errs = append(errs, fmt.Errorf("compensating %s: %w", step.name, err))
			continue
		}
		c.logger.Warn().Str("step", step.name).Msg("Compensation applied")
	}
	return errors.Join(errs...)
}

// Assign links a student to a supervisor, moving it from its previous one
func (c *assignmentCoordinatorImpl) Assign(ctx context.Context, studentID, supervisorID string) (*dto.AssignmentResponse, error) {
	studentID, supervisorID = strings.TrimSpace(studentID), strings.TrimSpace(supervisorID)
	if studentID == "" || supervisorID == "" {
		return nil, apperrors.NewBadRequestError("studentId and supervisorId are required")
	}

	student, unlock, err := c.lockStudent(ctx, studentID, supervisorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	target, err := c.findSupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	previousID := currentSupervisor(student)
	same := previousID == supervisorID

	if !target.Available {
		return nil, apperrors.ErrSupervisorUnavailable
	}
	// checked before the same-supervisor comparison, so a full supervisor
	// refuses even its own student; the counter is untouched in that case
	if !target.HasCapacity() {
		return nil, quotaError(target)
	}

	log := c.logger.With().Str("studentID", studentID).Str("supervisorID", supervisorID).Str("previousSupervisorID", previousID).Logger()
	undo := &undoLog{}

	if previousID != "" && !same {
		if _, err := c.decrementLoad(ctx, previousID); err != nil {
			if !errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, fmt.Errorf("error releasing previous supervisor: %w", err)
			}
			log.Warn().Msg("Previous supervisor no longer exists, nothing to release")
		} else {
			undo.push("restore previous supervisor load", func(ctx context.Context) error {
				return c.restoreLoad(ctx, previousID)
			})
		}
	}

	previousStatus := student.Status
	previousRef := student.SupervisorID
	updatedStudent, err := c.students.Update(ctx, studentID, func(s *models.Student) error {
		ref := supervisorID
		s.SupervisorID = &ref
		s.Status = models.StatusInProgress
		return nil
	})
	if err != nil {
		return nil, c.rollback(ctx, undo, fmt.Errorf("error updating student: %w", err))
	}
	undo.push("restore student reference", func(ctx context.Context) error {
		_, err := c.students.Update(ctx, studentID, func(s *models.Student) error {
			s.SupervisorID = previousRef
			s.Status = previousStatus
			return nil
		})
		return err
	})

	if !same {
		target, err = c.incrementLoad(ctx, supervisorID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				err = apperrors.ErrSupervisorNotFound
			}
			return nil, c.rollback(ctx, undo, err)
		}
	}

	log.Info().Bool("reassertion", same).Int("currentLoad", target.CurrentLoad).Msg("Student assigned")

	supervisor := dto.NewSupervisorResponse(target)
	resp := &dto.AssignmentResponse{Student: updatedStudent, Supervisor: &supervisor}
	if previousID != "" && !same {
		resp.PreviousSupervisorID = &previousID
	}
	if !same {
		c.publish(EventAssignmentCreated, assignmentEvent(updatedStudent, &supervisor, previousID), studentID, supervisorID, previousID)
	}
	return resp, nil
}

// Unassign clears the student's supervisor and releases its slot
func (c *assignmentCoordinatorImpl) Unassign(ctx context.Context, studentID string) (*dto.AssignmentResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apperrors.NewBadRequestError("studentId is required")
	}

	student, unlock, err := c.lockStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !student.HasSupervisor() {
		return nil, apperrors.ErrStudentNotAssigned
	}
	previousID := *student.SupervisorID
	log := c.logger.With().Str("studentID", studentID).Str("supervisorID", previousID).Logger()
	undo := &undoLog{}

	var released *dto.SupervisorResponse
	supervisor, err := c.decrementLoad(ctx, previousID)
	switch {
	case err == nil:
		resp := dto.NewSupervisorResponse(supervisor)
		released = &resp
		undo.push("restore supervisor load", func(ctx context.Context) error {
			return c.restoreLoad(ctx, previousID)
		})
	case errors.Is(err, apperrors.ErrResourceNotFound):
		log.Warn().Msg("Assigned supervisor no longer exists, clearing reference only")
	default:
		return nil, fmt.Errorf("error releasing supervisor: %w", err)
	}

	updated, err := c.students.Update(ctx, studentID, func(s *models.Student) error {
		s.SupervisorID = nil
		s.Status = models.StatusPending
		return nil
	})
	if err != nil {
		return nil, c.rollback(ctx, undo, fmt.Errorf("error updating student: %w", err))
	}

	log.Info().Msg("Student unassigned")
	c.publish(EventAssignmentRemoved, assignmentEvent(updated, released, previousID), studentID, previousID)
	return &dto.AssignmentResponse{Student: updated, Supervisor: released, PreviousSupervisorID: &previousID}, nil
}

// DeleteStudent releases the student's slot, removes the record and its documents
func (c *assignmentCoordinatorImpl) DeleteStudent(ctx context.Context, studentID string) error {
	student, unlock, err := c.lockStudent(ctx, studentID)
	if err != nil {
		return err
	}
	defer unlock()

	log := c.logger.With().Str("studentID", studentID).Logger()
	undo := &undoLog{}

	if supervisorID := currentSupervisor(student); supervisorID != "" {
		_, err := c.decrementLoad(ctx, supervisorID)
		switch {
		case err == nil:
			undo.push("restore supervisor load", func(ctx context.Context) error {
				return c.restoreLoad(ctx, supervisorID)
			})
		case errors.Is(err, apperrors.ErrResourceNotFound):
			log.Warn().Str("supervisorID", supervisorID).Msg("Assigned supervisor no longer exists")
		default:
			return fmt.Errorf("error releasing supervisor: %w", err)
		}
	}

	deleted, err := c.students.Delete(ctx, studentID)
	if err != nil {
		return c.rollback(ctx, undo, fmt.Errorf("error deleting student: %w", err))
	}
	if !deleted {
		return c.rollback(ctx, undo, apperrors.ErrStudentNotFound)
	}

	c.deleteDocuments(ctx, studentID)
	c.unlinkUsers(ctx, func(u models.User) bool { return u.StudentID != nil && *u.StudentID == studentID }, func(u *models.User) { u.StudentID = nil })

	log.Info().Msg("Student deleted")
	c.publish(EventStudentDeleted, dto.AssignmentEvent{StudentID: studentID, PreviousSupervisorID: currentSupervisor(student)}, studentID, currentSupervisor(student))
	return nil
}

// deleteDocuments removes a deleted student's documents. Failures are logged:
// the student is already gone and leftovers do not affect loads.
func (c *assignmentCoordinatorImpl) deleteDocuments(ctx context.Context, studentID string) {
	docs, err := c.documents.FindAll(ctx, func(d models.Document) bool { return d.StudentID == studentID })
	if err != nil {
		c.logger.Error().Err(err).Str("studentID", studentID).Msg("Failed to list documents of deleted student")
		return
	}
	for _, d := range docs {
		if c.files != nil {
			if err := c.files.Delete(d.Path); err != nil {
				c.logger.Error().Err(err).Str("documentID", d.ID).Msg("Failed to delete document file")
			}
		}
		if _, err := c.documents.Delete(ctx, d.ID); err != nil {
			c.logger.Error().Err(err).Str("documentID", d.ID).Msg("Failed to delete document record")
		}
	}
}

func (c *assignmentCoordinatorImpl) unlinkUsers(ctx context.Context, pred recordstore.Predicate[models.User], clear func(*models.User)) {
	users, err := c.users.FindAll(ctx, pred)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list linked accounts")
		return
	}
	for _, u := range users {
		if _, err := c.users.Update(ctx, u.ID, func(u *models.User) error {
			clear(u)
			return nil
		}); err != nil {
			c.logger.Error().Err(err).Str("userID", u.ID).Msg("Failed to unlink account")
		}
	}
}

// DeleteSupervisor removes a supervisor that has no students
func (c *assignmentCoordinatorImpl) DeleteSupervisor(ctx context.Context, supervisorID string) error {
	unlock, err := c.lock(ctx, "", supervisorID)
	if err != nil {
		return err
	}
	defer unlock()

	supervisor, err := c.findSupervisor(ctx, supervisorID)
	if err != nil {
		return err
	}

	assigned, err := c.students.Count(ctx, func(s models.Student) bool { return s.AssignedTo(supervisorID) })
	if err != nil {
		return fmt.Errorf("error counting assigned students: %w", err)
	}
	if assigned > 0 || supervisor.CurrentLoad > 0 {
		return apperrors.NewCustomError(apperrors.ErrSupervisorHasStudents,
			fmt.Sprintf("cannot delete a supervisor with %d assigned students", max(assigned, supervisor.CurrentLoad))).
			WithDetails(map[string]interface{}{"assignedStudents": assigned, "currentLoad": supervisor.CurrentLoad})
	}

	deleted, err := c.supervisors.Delete(ctx, supervisorID)
	if err != nil {
		return fmt.Errorf("error deleting supervisor: %w", err)
	}
	if !deleted {
		return apperrors.ErrSupervisorNotFound
	}

	c.unlinkUsers(ctx, func(u models.User) bool { return u.SupervisorID != nil && *u.SupervisorID == supervisorID }, func(u *models.User) { u.SupervisorID = nil })
	c.logger.Info().Str("supervisorID", supervisorID).Msg("Supervisor deleted")
	return nil
}

// Reconcile recomputes every supervisor's load from the students that
// reference it and repairs the ones that drifted.
func (c *assignmentCoordinatorImpl) Reconcile(ctx context.Context) (*dto.ReconcileResponse, error) {
	supervisors, err := c.supervisors.FindAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing supervisors: %w", err)
	}

	report := &dto.ReconcileResponse{Corrections: []dto.LoadCorrection{}, Dangling: []string{}}
	known := make(map[string]struct{}, len(supervisors))

	for _, sup := range supervisors {
		known[sup.ID] = struct{}{}
		correction, err := c.reconcileOne(ctx, sup.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrSupervisorNotFound) {
				continue
			}
			return nil, err
		}
		report.Checked++
		if correction != nil {
			report.Corrections = append(report.Corrections, *correction)
		}
	}

	dangling, err := c.students.FindAll(ctx, func(s models.Student) bool {
		if !s.HasSupervisor() {
			return false
		}
		_, ok := known[*s.SupervisorID]
		return !ok
	})
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	for _, s := range dangling {
		report.Dangling = append(report.Dangling, s.ID)
		c.logger.Warn().Str("studentID", s.ID).Str("supervisorID", *s.SupervisorID).Msg("Student references a missing supervisor")
	}

	c.logger.Info().Int("checked", report.Checked).Int("corrected", len(report.Corrections)).Int("dangling", len(report.Dangling)).Msg("Reconcile finished")
	return report, nil
}

func (c *assignmentCoordinatorImpl) reconcileOne(ctx context.Context, supervisorID string) (*dto.LoadCorrection, error) {
	unlock, err := c.lock(ctx, "", supervisorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	stored, err := c.findSupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	actual, err := c.students.Count(ctx, func(s models.Student) bool { return s.AssignedTo(supervisorID) })
	if err != nil {
		return nil, fmt.Errorf("error counting assigned students: %w", err)
	}
	if stored.CurrentLoad == actual {
		return nil, nil
	}

	correction := &dto.LoadCorrection{SupervisorID: stored.ID, Name: stored.FullName(), Stored: stored.CurrentLoad, Actual: actual}
	_, err = c.supervisors.Update(ctx, supervisorID, func(s *models.Supervisor) error {
		s.CurrentLoad = actual
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrSupervisorNotFound
		}
		return nil, fmt.Errorf("error updating supervisor load: %w", err)
	}

	c.logger.Warn().Str("supervisorID", supervisorID).Int("stored", correction.Stored).Int("actual", correction.Actual).Msg("Supervisor load corrected")
	c.publish(EventLoadCorrected, correction, "", supervisorID)
	return correction, nil
}
