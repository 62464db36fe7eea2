package services

import (
	appauth "github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/pkg/websocket"
)

// Event types pushed on the event stream
const (
	EventAssignmentCreated = "assignment.created"
	EventAssignmentRemoved = "assignment.removed"
	EventStudentDeleted    = "student.deleted"
	EventLoadCorrected     = "load.corrected"
)

// TopicAssignments carries every event; only administrators follow it
const TopicAssignments = "assignments"

// SupervisorTopic carries the events touching one supervisor's load
func SupervisorTopic(id string) string { return "supervisor:" + id }

// StudentTopic carries the events touching one student's assignment
func StudentTopic(id string) string { return "student:" + id }

// EventTopics returns the topics a caller may follow. Accounts not linked
// to a profile get none.
func EventTopics(p appauth.Principal) []string {
	switch {
	case p.IsAdmin():
		return []string{TopicAssignments}
	case p.Role == models.RoleSupervisor && p.SupervisorID != "":
		return []string{SupervisorTopic(p.SupervisorID)}
	case p.Role == models.RoleStudent && p.StudentID != "":
		return []string{StudentTopic(p.StudentID)}
	}
	return nil
}

func (c *assignmentCoordinatorImpl) publish(eventType string, event interface{}, studentID string, supervisorIDs ...string) {
	if c.events == nil {
		return
	}
	topics := []string{TopicAssignments}
	if studentID != "" {
		topics = append(topics, StudentTopic(studentID))
	}
	for _, id := range supervisorIDs {
		if id != "" {
			topics = append(topics, SupervisorTopic(id))
		}
	}
	c.events.Publish(websocket.Message{Type: eventType, Topics: topics, Data: event})
}

func assignmentEvent(student models.Student, supervisor *dto.SupervisorResponse, previousID string) dto.AssignmentEvent {
	event := dto.AssignmentEvent{
		StudentID:            student.ID,
		SupervisorID:         currentSupervisor(student),
		PreviousSupervisorID: previousID,
		Status:               student.Status,
	}
	if supervisor != nil {
		load, quota := supervisor.CurrentLoad, supervisor.MaxQuota
		event.CurrentLoad, event.MaxQuota = &load, &quota
	}
	return event
}
