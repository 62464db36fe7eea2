package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/auth"
	"github.com/yigit/thesismatch/internal/pkg/filestorage"
	"github.com/yigit/thesismatch/internal/pkg/locker"
	"golang.org/x/crypto/bcrypt"
)

var admin = appauth.Principal{UserID: "admin-1", Role: models.RoleAdmin}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

type testEnv struct {
	repos *repositories.Repositories
	svc   *Services
	root  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := repositories.NewMemoryRepositories()
	root := t.TempDir()
	files, err := filestorage.NewLocalStorage(root, "")
	require.NoError(t, err)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "thesismatch-test"})
	svc := NewServices(repos, files, appauth.NewAuthorizationService(repos.Students), jwtService,
		auth.NewPasswordHasher(bcrypt.MinCost),
		Options{Locker: locker.NewKeyedMutex(), LockWait: time.Second, MaxUploadSize: 1024},
		zerolog.Nop())
	return &testEnv{repos: repos, svc: svc, root: root}
}

func (e *testEnv) student(t *testing.T, first, email string, domains ...string) models.Student {
	t.Helper()
	s, err := e.svc.Students.CreateStudent(context.Background(), &dto.CreateStudentRequest{
		FirstName: first, LastName: "Student", Email: email, Program: "Communication", Year: "2024-2025", Domains: domains,
	})
	require.NoError(t, err)
	return *s
}

func (e *testEnv) supervisor(t *testing.T, first, email string, quota int, domains ...string) dto.SupervisorResponse {
	t.Helper()
	s, err := e.svc.Supervisors.CreateSupervisor(context.Background(), &dto.CreateSupervisorRequest{
		FirstName: first, LastName: "Sup", Email: email, MaxQuota: intPtr(quota), Domains: domains,
	})
	require.NoError(t, err)
	return *s
}

func uploadHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestStudentService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	awa := env.student(t, "Awa", " Awa@Univ.Example ", "Médias", "médias ", "Communication")
	ben := env.student(t, "Ben", "ben@univ.example")
	sup := env.supervisor(t, "Jean", "jean@univ.example", 3)
	_, err := env.svc.Coordinator.Assign(ctx, awa.ID, sup.ID)
	require.NoError(t, err)

	supPrincipal := appauth.Principal{UserID: "u-sup", Role: models.RoleSupervisor, SupervisorID: sup.ID}
	awaPrincipal := appauth.Principal{UserID: "u-awa", Role: models.RoleStudent, StudentID: awa.ID}

	t.Run("should create students unassigned at the first stage", func(t *testing.T) {
		assert.Equal(t, "awa@univ.example", awa.Email)
		assert.Equal(t, models.StageTopicSubmission, awa.Stage)
		assert.Equal(t, models.StatusPending, awa.Status)
		assert.Nil(t, awa.SupervisorID)
		assert.Equal(t, models.Domains{"Médias", "Communication"}, awa.Domains)
	})

	t.Run("should refuse a duplicate email whatever its casing", func(t *testing.T) {
		_, err := env.svc.Students.CreateStudent(ctx, &dto.CreateStudentRequest{
			FirstName: "X", LastName: "Y", Email: "AWA@univ.example", Program: "P", Year: "Y",
		})
		assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("should scope lists to the caller", func(t *testing.T) {
		all, err := env.svc.Students.ListStudents(ctx, admin, dto.StudentFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		mine, err := env.svc.Students.ListStudents(ctx, supPrincipal, dto.StudentFilter{})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, awa.ID, mine[0].ID)

		self, err := env.svc.Students.ListStudents(ctx, awaPrincipal, dto.StudentFilter{})
		require.NoError(t, err)
		require.Len(t, self, 1)

		_, err = env.svc.Students.ListStudents(ctx, appauth.Principal{Role: models.RoleSupervisor}, dto.StudentFilter{})
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	})

	t.Run("should filter by status and search text", func(t *testing.T) {
		inProgress, err := env.svc.Students.ListStudents(ctx, admin, dto.StudentFilter{Status: models.StatusInProgress})
		require.NoError(t, err)
		require.Len(t, inProgress, 1)
		assert.Equal(t, awa.ID, inProgress[0].ID)

		found, err := env.svc.Students.ListStudents(ctx, admin, dto.StudentFilter{Search: "BEN"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, ben.ID, found[0].ID)

		_, err = env.svc.Students.ListStudents(ctx, admin, dto.StudentFilter{Status: "DONE"})
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	})

	t.Run("should return the detail to the assigned supervisor only", func(t *testing.T) {
		detail, err := env.svc.Students.GetStudent(ctx, supPrincipal, awa.ID)
		require.NoError(t, err)
		require.NotNil(t, detail.Supervisor)
		assert.Equal(t, sup.ID, detail.Supervisor.ID)
		assert.Empty(t, detail.Documents)

		_, err = env.svc.Students.GetStudent(ctx, supPrincipal, ben.ID)
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

		_, err = env.svc.Students.GetStudent(ctx, admin, "missing")
		assert.True(t, errors.Is(err, apperrors.ErrStudentNotFound))
	})

	t.Run("should let students edit their own project fields only", func(t *testing.T) {
		updated, err := env.svc.Students.UpdateStudent(ctx, awaPrincipal, awa.ID, &dto.UpdateStudentRequest{
			ThesisTitle: strPtr("Local media and civic trust"),
			Domains:     &[]string{"Journalisme"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Local media and civic trust", updated.ThesisTitle)
		assert.Equal(t, models.Domains{"Journalisme"}, updated.Domains)
		assert.True(t, updated.AssignedTo(sup.ID), "supervisor reference survives updates")

		_, err = env.svc.Students.UpdateStudent(ctx, awaPrincipal, awa.ID, &dto.UpdateStudentRequest{FirstName: strPtr("A")})
		assert.True(t, errors.Is(err, appauth.ErrProjectFields))

		_, err = env.svc.Students.UpdateStudent(ctx, awaPrincipal, ben.ID, &dto.UpdateStudentRequest{Summary: strPtr("x")})
		assert.True(t, errors.Is(err, appauth.ErrNotOwnProfile))
	})

	t.Run("should refuse an email already used by another student", func(t *testing.T) {
		_, err := env.svc.Students.UpdateStudent(ctx, admin, ben.ID, &dto.UpdateStudentRequest{Email: strPtr("awa@univ.example")})
		assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))

		same, err := env.svc.Students.UpdateStudent(ctx, admin, ben.ID, &dto.UpdateStudentRequest{Email: strPtr("BEN@univ.example")})
		require.NoError(t, err)
		assert.Equal(t, "ben@univ.example", same.Email)
	})

	t.Run("should release the supervisor slot on delete", func(t *testing.T) {
		require.NoError(t, env.svc.Students.DeleteStudent(ctx, awa.ID))
		stored, err := env.repos.Supervisors.FindByID(ctx, sup.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.CurrentLoad)
	})
}

func TestSupervisorService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	t.Run("should apply defaults on create", func(t *testing.T) {
		created, err := env.svc.Supervisors.CreateSupervisor(ctx, &dto.CreateSupervisorRequest{
			FirstName: "Default", LastName: "Quota", Email: "default@univ.example",
		})
		require.NoError(t, err)
		assert.Equal(t, models.DefaultMaxQuota, created.MaxQuota)
		assert.True(t, created.Available)
		assert.Equal(t, 0, created.CurrentLoad)
		assert.Equal(t, 10, created.RemainingSlots)

		_, err = env.svc.Supervisors.CreateSupervisor(ctx, &dto.CreateSupervisorRequest{
			FirstName: "Dup", LastName: "Licate", Email: "DEFAULT@univ.example",
		})
		assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))
	})

	sup := env.supervisor(t, "Jean", "jean@univ.example", 3, "Médias", "Journalisme")
	owner := appauth.Principal{UserID: "u-jean", Role: models.RoleSupervisor, SupervisorID: sup.ID}
	s1 := env.student(t, "S1", "s1@univ.example")
	s2 := env.student(t, "S2", "s2@univ.example")
	for _, id := range []string{s1.ID, s2.ID} {
		_, err := env.svc.Coordinator.Assign(ctx, id, sup.ID)
		require.NoError(t, err)
	}

	t.Run("should refuse a quota below the current load", func(t *testing.T) {
		_, err := env.svc.Supervisors.UpdateSupervisor(ctx, admin, sup.ID, &dto.UpdateSupervisorRequest{MaxQuota: intPtr(1)})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))

		stored, err := env.repos.Supervisors.FindByID(ctx, sup.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stored.MaxQuota)

		updated, err := env.svc.Supervisors.UpdateSupervisor(ctx, admin, sup.ID, &dto.UpdateSupervisorRequest{MaxQuota: intPtr(2)})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.MaxQuota)
		assert.Equal(t, 100, updated.FillRate)
	})

	t.Run("should let the owner edit the profile but not the quota", func(t *testing.T) {
		updated, err := env.svc.Supervisors.UpdateSupervisor(ctx, owner, sup.ID, &dto.UpdateSupervisorRequest{Biography: strPtr("Media studies")})
		require.NoError(t, err)
		assert.Equal(t, "Media studies", updated.Biography)
		assert.Equal(t, 2, updated.CurrentLoad)

		_, err = env.svc.Supervisors.UpdateSupervisor(ctx, owner, sup.ID, &dto.UpdateSupervisorRequest{MaxQuota: intPtr(5)})
		assert.True(t, errors.Is(err, appauth.ErrQuotaAdminOnly))
	})

	t.Run("should filter by availability and domain", func(t *testing.T) {
		_, err := env.svc.Supervisors.UpdateSupervisor(ctx, admin, sup.ID, &dto.UpdateSupervisorRequest{Available: boolPtr(false)})
		require.NoError(t, err)

		available, err := env.svc.Supervisors.ListSupervisors(ctx, dto.SupervisorFilter{Available: boolPtr(true)})
		require.NoError(t, err)
		require.Len(t, available, 1)
		assert.Equal(t, "Default", available[0].FirstName)

		media, err := env.svc.Supervisors.ListSupervisors(ctx, dto.SupervisorFilter{Domain: "médias"})
		require.NoError(t, err)
		require.Len(t, media, 1)
		assert.Equal(t, sup.ID, media[0].ID)
	})

	t.Run("should list supervised students in the detail", func(t *testing.T) {
		detail, err := env.svc.Supervisors.GetSupervisor(ctx, sup.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Students, 2)

		_, err = env.svc.Supervisors.GetSupervisor(ctx, "missing")
		assert.True(t, errors.Is(err, apperrors.ErrSupervisorNotFound))
	})

	t.Run("should refuse to delete a supervisor with students", func(t *testing.T) {
		err := env.svc.Supervisors.DeleteSupervisor(ctx, sup.ID)
		assert.True(t, errors.Is(err, apperrors.ErrSupervisorHasStudents))
	})
}

func TestMatchingService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.student(t, "Awa", "awa@univ.example", "Communication", "Médias")
	x := env.supervisor(t, "X", "x@univ.example", 2, "Médias", "Journalisme")
	y := env.supervisor(t, "Y", "y@univ.example", 4, "communication", "médias")
	full := env.supervisor(t, "Full", "full@univ.example", 1, "Communication", "Médias")
	other := env.student(t, "Other", "other@univ.example")
	_, err := env.svc.Coordinator.Assign(ctx, other.ID, full.ID)
	require.NoError(t, err)

	t.Run("should rank eligible supervisors best first", func(t *testing.T) {
		resp, err := env.svc.Matching.Suggest(ctx, admin, student.ID, 0)
		require.NoError(t, err)
		require.Len(t, resp.Suggestions, 2)

		assert.Equal(t, y.ID, resp.Suggestions[0].Supervisor.ID)
		assert.Equal(t, 1.0, resp.Suggestions[0].Composite)

		second := resp.Suggestions[1]
		assert.Equal(t, x.ID, second.Supervisor.ID)
		assert.Equal(t, 0.33, second.Topical)
		assert.Equal(t, 1.0, second.Capacity)
		assert.Equal(t, 0.53, second.Composite)
		assert.Equal(t, []string{"Médias"}, second.CommonDomains)
		assert.Equal(t, 2, second.Remaining)
	})

	t.Run("should apply the limit", func(t *testing.T) {
		resp, err := env.svc.Matching.Suggest(ctx, admin, student.ID, 1)
		require.NoError(t, err)
		assert.Len(t, resp.Suggestions, 1)
	})

	t.Run("should let the student see its own suggestions only", func(t *testing.T) {
		self := appauth.Principal{Role: models.RoleStudent, StudentID: student.ID}
		_, err := env.svc.Matching.Suggest(ctx, self, student.ID, 0)
		assert.NoError(t, err)
		_, err = env.svc.Matching.Suggest(ctx, self, other.ID, 0)
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	})

	t.Run("should report a missing student", func(t *testing.T) {
		_, err := env.svc.Matching.Suggest(ctx, admin, "missing", 0)
		assert.True(t, errors.Is(err, apperrors.ErrStudentNotFound))
	})
}

func TestWorkflowService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	for _, st := range models.DefaultStages() {
		_, err := env.repos.Stages.Create(ctx, st)
		require.NoError(t, err)
	}
	student := env.student(t, "Awa", "awa@univ.example")
	sup := env.supervisor(t, "Jean", "jean@univ.example", 3)
	_, err := env.svc.Coordinator.Assign(ctx, student.ID, sup.ID)
	require.NoError(t, err)

	t.Run("should list stages in order", func(t *testing.T) {
		stages, err := env.svc.Workflow.ListStages(ctx, false)
		require.NoError(t, err)
		require.Len(t, stages, 6)
		assert.Equal(t, models.StageTopicSubmission, stages[0].Code)
		assert.Equal(t, models.StageFinalSubmission, stages[5].Code)
	})

	t.Run("should keep codes unique", func(t *testing.T) {
		created, err := env.svc.Workflow.CreateStage(ctx, &dto.CreateStageRequest{Code: "soutenance orale", Label: "Defense", Order: 7})
		require.NoError(t, err)
		assert.Equal(t, "SOUTENANCE_ORALE", created.Code)
		assert.True(t, created.Active)

		_, err = env.svc.Workflow.CreateStage(ctx, &dto.CreateStageRequest{Code: "SOUTENANCE_ORALE", Label: "Again", Order: 8})
		assert.True(t, errors.Is(err, apperrors.ErrStageCodeExists))

		_, err = env.svc.Workflow.UpdateStage(ctx, created.ID, &dto.UpdateStageRequest{Active: boolPtr(false)})
		require.NoError(t, err)
		active, err := env.svc.Workflow.ListStages(ctx, true)
		require.NoError(t, err)
		assert.Len(t, active, 6)
	})

	t.Run("should let the assigned supervisor advance the student", func(t *testing.T) {
		p := appauth.Principal{UserID: "u-jean", Role: models.RoleSupervisor, SupervisorID: sup.ID}
		updated, err := env.svc.Workflow.AdvanceStudent(ctx, p, student.ID, &dto.AdvanceStageRequest{
			Stage: models.StagePlanSubmission, Status: models.StatusValidated, Remarks: strPtr("good plan"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.StagePlanSubmission, updated.Stage)
		assert.Equal(t, models.StatusValidated, updated.Status)
		assert.Equal(t, "good plan", updated.Remarks)
		assert.True(t, updated.AssignedTo(sup.ID))

		kept, err := env.svc.Workflow.AdvanceStudent(ctx, admin, student.ID, &dto.AdvanceStageRequest{Stage: models.StagePlanFeedback})
		require.NoError(t, err)
		assert.Equal(t, models.StatusValidated, kept.Status)
	})

	t.Run("should refuse unknown or inactive stages and other supervisors", func(t *testing.T) {
		_, err := env.svc.Workflow.AdvanceStudent(ctx, admin, student.ID, &dto.AdvanceStageRequest{Stage: "NOPE"})
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

		_, err = env.svc.Workflow.AdvanceStudent(ctx, admin, student.ID, &dto.AdvanceStageRequest{Stage: "SOUTENANCE_ORALE"})
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

		stranger := appauth.Principal{Role: models.RoleSupervisor, SupervisorID: "someone-else"}
		_, err = env.svc.Workflow.AdvanceStudent(ctx, stranger, student.ID, &dto.AdvanceStageRequest{Stage: models.StageFinalSubmission})
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	})

	t.Run("should refuse to delete a stage in use", func(t *testing.T) {
		stages, err := env.svc.Workflow.ListStages(ctx, false)
		require.NoError(t, err)
		var feedback models.WorkflowStage
		for _, st := range stages {
			if st.Code == models.StagePlanFeedback {
				feedback = st
			}
		}
		err = env.svc.Workflow.DeleteStage(ctx, feedback.ID)
		assert.True(t, errors.Is(err, apperrors.ErrConflict))

		require.NoError(t, env.svc.Workflow.DeleteStage(ctx, stages[0].ID))
		_, err = env.svc.Workflow.GetStage(ctx, stages[0].ID)
		assert.True(t, errors.Is(err, apperrors.ErrStageNotFound))
	})
}

func TestDocumentService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.repos.Stages.Create(ctx, models.WorkflowStage{Code: models.StagePlanSubmission, Order: 3, Active: true})
	require.NoError(t, err)
	student := env.student(t, "Awa", "awa@univ.example")
	self := appauth.Principal{UserID: "u-awa", Role: models.RoleStudent, StudentID: student.ID}
	other := env.student(t, "Ben", "ben@univ.example")

	var uploaded *models.Document
	t.Run("should store an allowed file", func(t *testing.T) {
		uploaded, err = env.svc.Documents.Upload(ctx, self, student.ID,
			&dto.UploadDocumentRequest{Stage: models.StagePlanSubmission}, uploadHeader(t, "plan.pdf", []byte("%PDF-1.4")))
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", uploaded.MimeType)
		assert.Equal(t, "plan.pdf", uploaded.Name)
		assert.Equal(t, models.StagePlanSubmission, uploaded.Stage)
		assert.Equal(t, "u-awa", uploaded.UploadedBy)

		_, path, err := env.svc.Documents.Open(ctx, self, uploaded.ID)
		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(content))
	})

	t.Run("should default to the current stage", func(t *testing.T) {
		doc, err := env.svc.Documents.Upload(ctx, admin, student.ID, nil, uploadHeader(t, "notes.txt", []byte("notes")))
		require.NoError(t, err)
		assert.Equal(t, models.StageTopicSubmission, doc.Stage)
		assert.Equal(t, "text/plain", doc.MimeType)
	})

	t.Run("should reject bad uploads", func(t *testing.T) {
		_, err := env.svc.Documents.Upload(ctx, self, student.ID, nil, uploadHeader(t, "run.exe", []byte("MZ")))
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

		_, err = env.svc.Documents.Upload(ctx, self, student.ID, nil, uploadHeader(t, "big.pdf", bytes.Repeat([]byte("a"), 2048)))
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

		_, err = env.svc.Documents.Upload(ctx, self, student.ID, &dto.UploadDocumentRequest{Stage: "NOPE"}, uploadHeader(t, "a.pdf", []byte("x")))
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

		_, err = env.svc.Documents.Upload(ctx, self, other.ID, nil, uploadHeader(t, "a.pdf", []byte("x")))
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	})

	t.Run("should list newest first", func(t *testing.T) {
		docs, err := env.svc.Documents.ListByStudent(ctx, self, student.ID)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "notes.txt", docs[0].Name)
	})

	t.Run("should delete for the uploader only", func(t *testing.T) {
		_, path, err := env.svc.Documents.Open(ctx, admin, uploaded.ID)
		require.NoError(t, err)

		stranger := appauth.Principal{UserID: "u-other", Role: models.RoleStudent, StudentID: student.ID}
		assert.True(t, errors.Is(env.svc.Documents.Delete(ctx, stranger, uploaded.ID), apperrors.ErrPermissionDenied))

		require.NoError(t, env.svc.Documents.Delete(ctx, self, uploaded.ID))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
		assert.True(t, errors.Is(env.svc.Documents.Delete(ctx, self, uploaded.ID), apperrors.ErrDocumentNotFound))
	})
}

func TestStatsService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.student(t, "A", "a@univ.example", "Médias")
	env.student(t, "B", "b@univ.example", "médias", "Santé")
	p1 := env.supervisor(t, "P1", "p1@univ.example", 2, "Médias")
	env.supervisor(t, "P2", "p2@univ.example", 2, "Droit")
	_, err := env.svc.Coordinator.Assign(ctx, a.ID, p1.ID)
	require.NoError(t, err)

	t.Run("should summarise students and capacity", func(t *testing.T) {
		stats, err := env.svc.Stats.Overview(ctx)
		require.NoError(t, err)
		assert.Equal(t, dto.StudentCounts{Total: 2, Assigned: 1, Unassigned: 1}, stats.Students)
		assert.Equal(t, dto.SupervisorCounts{Total: 2, Available: 2, Full: 0}, stats.Supervisors)
		assert.Equal(t, dto.CapacityStats{TotalQuota: 4, TotalLoad: 1, FillRate: 25}, stats.Capacity)
		assert.Equal(t, 1, stats.ByStatus[string(models.StatusInProgress)])
		assert.Equal(t, 2, stats.ByStage[models.StageTopicSubmission])
	})

	t.Run("should sort supervisors by fill rate", func(t *testing.T) {
		loads, err := env.svc.Stats.SupervisorLoads(ctx)
		require.NoError(t, err)
		require.Len(t, loads, 2)
		assert.Equal(t, p1.ID, loads[0].ID)
		assert.Equal(t, 50, loads[0].FillRate)
		assert.Equal(t, 1, loads[0].Students)
	})

	t.Run("should count tags case-insensitively", func(t *testing.T) {
		domains, err := env.svc.Stats.Domains(ctx)
		require.NoError(t, err)
		require.Len(t, domains, 3)
		assert.Equal(t, dto.DomainStat{Domain: "Médias", Students: 2, Supervisors: 1}, domains[0])
		assert.Equal(t, "Droit", domains[1].Domain)
		assert.Equal(t, "Santé", domains[2].Domain)
	})
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.student(t, "Awa", "awa@univ.example")
	sup := env.supervisor(t, "Jean", "jean@univ.example", 3)

	t.Run("should register linked accounts", func(t *testing.T) {
		u, err := env.svc.Auth.Register(ctx, &dto.RegisterRequest{
			Email: "Jean@Univ.Example", Password: "secret123", FirstName: "Jean", LastName: "Sup",
			Role: models.RoleSupervisor, SupervisorID: &sup.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "jean@univ.example", u.Email)
		require.NotNil(t, u.SupervisorID)

		stored, err := env.repos.Supervisors.FindByID(ctx, sup.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.UserID)
		assert.Equal(t, u.ID, *stored.UserID)

		_, err = env.svc.Auth.Register(ctx, &dto.RegisterRequest{
			Email: "other@univ.example", Password: "secret123", FirstName: "O", LastName: "T",
			Role: models.RoleSupervisor, SupervisorID: &sup.ID,
		})
		assert.True(t, errors.Is(err, ErrProfileLinked))
	})

	t.Run("should require a profile for student accounts", func(t *testing.T) {
		_, err := env.svc.Auth.Register(ctx, &dto.RegisterRequest{
			Email: "nostudent@univ.example", Password: "secret123", FirstName: "N", LastName: "S", Role: models.RoleStudent,
		})
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

		_, err = env.svc.Auth.Register(ctx, &dto.RegisterRequest{
			Email: "ghost@univ.example", Password: "secret123", FirstName: "G", LastName: "S",
			Role: models.RoleStudent, StudentID: strPtr("missing"),
		})
		assert.True(t, errors.Is(err, apperrors.ErrStudentNotFound))
	})

	t.Run("should log in and describe the caller", func(t *testing.T) {
		u, err := env.svc.Auth.Register(ctx, &dto.RegisterRequest{
			Email: "awa@univ.example", Password: "secret123", FirstName: "Awa", LastName: "S",
			Role: models.RoleStudent, StudentID: &student.ID,
		})
		require.NoError(t, err)

		_, err = env.svc.Auth.Register(ctx, &dto.RegisterRequest{
			Email: "AWA@univ.example", Password: "secret123", FirstName: "Awa", LastName: "S", Role: models.RoleAdmin,
		})
		assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))

		resp, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "Awa@univ.example", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.Equal(t, "Bearer", resp.Token.TokenType)
		assert.Equal(t, int64(3600), resp.Token.ExpiresIn)
		assert.Equal(t, u.ID, resp.User.ID)

		me, err := env.svc.Auth.Me(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, me.Student)
		assert.Equal(t, student.ID, me.Student.ID)
		assert.Nil(t, me.Supervisor)
	})

	t.Run("should hide whether the email exists", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "awa@univ.example", Password: "wrong-password"})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
		_, err = env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "nobody@univ.example", Password: "secret123"})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
	})
	t.Run("should change a password only with the current one", func(t *testing.T) {
		u, err := env.svc.Auth.Register(ctx, &dto.RegisterRequest{
			Email: "changer@univ.example", Password: "secret123", FirstName: "C", LastName: "P", Role: models.RoleAdmin,
		})
		require.NoError(t, err)
		p := appauth.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}

		err = env.svc.Auth.ChangePassword(ctx, p, "not-my-password1", "fresh4567")
		assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
		err = env.svc.Auth.ChangePassword(ctx, p, "secret123", "short1")
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		err = env.svc.Auth.ChangePassword(ctx, p, "", "fresh4567")
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		// rejected attempts leave the old password in place
		_, err = env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "changer@univ.example", Password: "secret123"})
		require.NoError(t, err)

		require.NoError(t, env.svc.Auth.ChangePassword(ctx, p, "secret123", "fresh4567"))
		_, err = env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "changer@univ.example", Password: "secret123"})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
		_, err = env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "changer@univ.example", Password: "fresh4567"})
		assert.NoError(t, err)

		err = env.svc.Auth.ChangePassword(ctx, appauth.Principal{UserID: "gone"}, "secret123", "fresh4567")
		assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
	})
}
