package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/locker"
	"github.com/yigit/thesismatch/internal/pkg/websocket"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []websocket.Message
}

func (r *recordingPublisher) Publish(msg websocket.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recordingPublisher) take() []websocket.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

func TestCoordinatorEvents(t *testing.T) {
	ctx := context.Background()
	repos := repositories.NewMemoryRepositories()
	events := &recordingPublisher{}
	c := NewAssignmentCoordinator(repos, nil, locker.NewKeyedMutex(), time.Second, events, zerolog.Nop())
	s1 := seedStudent(t, repos, "s1")
	p1 := seedSupervisor(t, repos, "p1", 2, 0, true)
	p2 := seedSupervisor(t, repos, "p2", 2, 0, true)

	t.Run("should publish an assignment to the admin, student and supervisor topics", func(t *testing.T) {
		_, err := c.Assign(ctx, s1.ID, p1.ID)
		require.NoError(t, err)

		msgs := events.take()
		require.Len(t, msgs, 1)
		assert.Equal(t, EventAssignmentCreated, msgs[0].Type)
		assert.ElementsMatch(t, []string{TopicAssignments, StudentTopic(s1.ID), SupervisorTopic(p1.ID)}, msgs[0].Topics)

		event, ok := msgs[0].Data.(dto.AssignmentEvent)
		require.True(t, ok)
		assert.Equal(t, p1.ID, event.SupervisorID)
		assert.Equal(t, models.StatusInProgress, event.Status)
		require.NotNil(t, event.CurrentLoad)
		assert.Equal(t, 1, *event.CurrentLoad)
	})

	t.Run("should stay silent on a re-assertion", func(t *testing.T) {
		_, err := c.Assign(ctx, s1.ID, p1.ID)
		require.NoError(t, err)
		assert.Empty(t, events.take())
	})

	t.Run("should notify both supervisors on a move", func(t *testing.T) {
		_, err := c.Assign(ctx, s1.ID, p2.ID)
		require.NoError(t, err)

		msgs := events.take()
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0].Topics, SupervisorTopic(p1.ID))
		assert.Contains(t, msgs[0].Topics, SupervisorTopic(p2.ID))
		assert.Equal(t, p1.ID, msgs[0].Data.(dto.AssignmentEvent).PreviousSupervisorID)
	})

	t.Run("should publish nothing when a transition fails", func(t *testing.T) {
		_, err := c.Assign(ctx, s1.ID, "missing")
		require.Error(t, err)
		assert.Empty(t, events.take())
	})

	t.Run("should publish unassignments and corrections", func(t *testing.T) {
		_, err := c.Unassign(ctx, s1.ID)
		require.NoError(t, err)
		msgs := events.take()
		require.Len(t, msgs, 1)
		assert.Equal(t, EventAssignmentRemoved, msgs[0].Type)
		assert.Equal(t, 0, *msgs[0].Data.(dto.AssignmentEvent).CurrentLoad)

		_, err = repos.Supervisors.Update(ctx, p1.ID, func(s *models.Supervisor) error {
			s.CurrentLoad = 2
			return nil
		})
		require.NoError(t, err)
		_, err = c.Reconcile(ctx)
		require.NoError(t, err)

		msgs = events.take()
		require.Len(t, msgs, 1)
		assert.Equal(t, EventLoadCorrected, msgs[0].Type)
		assert.Equal(t, []string{TopicAssignments, SupervisorTopic(p1.ID)}, msgs[0].Topics)
	})

	t.Run("should publish student deletions", func(t *testing.T) {
		require.NoError(t, c.DeleteStudent(ctx, s1.ID))
		msgs := events.take()
		require.Len(t, msgs, 1)
		assert.Equal(t, EventStudentDeleted, msgs[0].Type)
		assert.Equal(t, []string{TopicAssignments, StudentTopic(s1.ID)}, msgs[0].Topics)
	})
}

func TestEventTopics(t *testing.T) {
	tests := []struct {
		name      string
		principal appauth.Principal
		expected  []string
	}{
		{"admin", appauth.Principal{Role: models.RoleAdmin}, []string{TopicAssignments}},
		{"linked supervisor", appauth.Principal{Role: models.RoleSupervisor, SupervisorID: "p1"}, []string{"supervisor:p1"}},
		{"linked student", appauth.Principal{Role: models.RoleStudent, StudentID: "s1"}, []string{"student:s1"}},
		{"unlinked student", appauth.Principal{Role: models.RoleStudent}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EventTopics(tt.principal))
		})
	}
}
