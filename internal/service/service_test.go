package service

import (
	"errors"
	"fmt"
	"testing"

	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/testutil"
	"pm-go/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }

// seedUser inserts an account without paying for bcrypt
func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Email:        username + "@example.com",
		Name:         "User " + username,
		Role:         models.RoleUser,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedClientAndTeam(t *testing.T, db *gorm.DB) (*dto.ClientResponse, *dto.TeamResponse) {
	t.Helper()
	client, err := NewClientService(db).Create(&dto.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)
	team, err := NewTeamService(db).Create(&dto.CreateTeamRequest{Name: fmt.Sprintf("Team %d", client.ID)})
	require.NoError(t, err)
	return client, team
}

func seedProject(t *testing.T, db *gorm.DB) *dto.ProjectResponse {
	t.Helper()
	client, team := seedClientAndTeam(t, db)
	project, err := NewProjectService(db).Create(&dto.CreateProjectRequest{
		Name:     "Website",
		ClientID: &client.ID,
		TeamID:   &team.ID,
		Status:   "Pending",
	})
	require.NoError(t, err)
	return project
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestValidateProjectListsEveryViolation(t *testing.T) {
	violations := ValidateProject(ProjectFields{Name: " "})
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"name", "client_id", "team_id", "status"}, fields)

	assert.Empty(t, ValidateProject(ProjectFields{
		Name: "ok", ClientID: uintPtr(1), TeamID: uintPtr(1), Status: "Pending",
	}))
}

func TestProjectCreateUnknownClient(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, team := seedClientAndTeam(t, db)

	_, err := NewProjectService(db).Create(&dto.CreateProjectRequest{
		Name:     "Ghost",
		ClientID: uintPtr(999),
		TeamID:   &team.ID,
		Status:   "Pending",
	})

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Client with id 999 not found", nf.Error())
	assert.Zero(t, countRows(t, db, &models.Project{}))
}

func TestProjectCreateMissingFields(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := NewProjectService(db).Create(&dto.CreateProjectRequest{
		Name:     "No status",
		Deadline: strPtr("someday"),
	})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	fields := []string{}
	for _, v := range ve.Violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"deadline", "client_id", "team_id", "status"}, fields)
}

func TestProjectRoundTripAndPartialUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	client, team := seedClientAndTeam(t, db)
	svc := NewProjectService(db)

	created, err := svc.Create(&dto.CreateProjectRequest{
		Name:        "Website",
		ClientID:    &client.ID,
		TeamID:      &team.ID,
		Status:      "Pending",
		Deadline:    strPtr("2025-03-01T10:00:00Z"),
		Description: strPtr("Marketing site"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.Deadline)
	assert.Equal(t, "2025-03-01T10:00:00Z", *created.Deadline)

	fetched, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	updated, err := svc.Update(created.ID, &dto.UpdateProjectRequest{Status: dto.Some("In Progress")})
	require.NoError(t, err)
	assert.Equal(t, "In Progress", updated.Status)

	expected := *fetched
	expected.Status = "In Progress"
	assert.Equal(t, expected, *updated)

	cleared, err := svc.Update(created.ID, &dto.UpdateProjectRequest{
		Deadline:    dto.Null[string](),
		Description: dto.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.Deadline)
	assert.Nil(t, cleared.Description)
	assert.Equal(t, "In Progress", cleared.Status)
	assert.Equal(t, created.CreationDate, cleared.CreationDate)
}

func TestProjectUpdateCannotNullReferences(t *testing.T) {
	db := testutil.NewTestDB(t)
	project := seedProject(t, db)

	_, err := NewProjectService(db).Update(project.ID, &dto.UpdateProjectRequest{ClientID: dto.Null[uint]()})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = NewProjectService(db).Update(project.ID, &dto.UpdateProjectRequest{TeamID: dto.Some(uint(404))})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Team with id 404 not found", nf.Error())
}

func TestProjectListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	first := seedProject(t, db)
	second := seedProject(t, db)
	svc := NewProjectService(db)

	_, err := svc.Update(second.ID, &dto.UpdateProjectRequest{Status: dto.Some("Done")})
	require.NoError(t, err)

	all, err := svc.List(repositoryProjectFilter(nil, nil, nil))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)

	done := "Done"
	filtered, err := svc.List(repositoryProjectFilter(nil, nil, &done))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)

	byClient, err := svc.List(repositoryProjectFilter(&first.ClientID, nil, nil))
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, first.ID, byClient[0].ID)
}

func TestProjectDeleteRemovesTasksAndMilestones(t *testing.T) {
	db := testutil.NewTestDB(t)
	project := seedProject(t, db)

	_, err := NewTaskService(db).CreateInProject(project.ID, &dto.CreateTaskRequest{Name: "Design", Status: "To Do"})
	require.NoError(t, err)
	_, err = NewMilestoneService(db).Create(project.ID, &dto.CreateMilestoneRequest{Name: "Launch", Date: strPtr("2025-06-01")})
	require.NoError(t, err)

	withChildren, err := NewProjectService(db).Get(project.ID)
	require.NoError(t, err)
	assert.Len(t, withChildren.Tasks, 1)
	assert.Len(t, withChildren.Milestones, 1)

	require.NoError(t, NewProjectService(db).Delete(project.ID))
	assert.Zero(t, countRows(t, db, &models.Task{}))
	assert.Zero(t, countRows(t, db, &models.ProjectMilestone{}))

	err = NewProjectService(db).Delete(project.ID)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Project not found", nf.Error())
}

func TestClientAndTeamDeleteGuard(t *testing.T) {
	db := testutil.NewTestDB(t)
	project := seedProject(t, db)

	var rg *ReferentialGuardError
	err := NewClientService(db).Delete(project.ClientID)
	require.True(t, errors.As(err, &rg))
	assert.Contains(t, rg.Error(), "Cannot delete client")

	err = NewTeamService(db).Delete(project.TeamID)
	require.True(t, errors.As(err, &rg))
	assert.Contains(t, rg.Error(), "Cannot delete team")

	assert.EqualValues(t, 1, countRows(t, db, &models.Client{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.Team{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.Project{}))

	require.NoError(t, NewProjectService(db).Delete(project.ID))
	assert.NoError(t, NewClientService(db).Delete(project.ClientID))
	assert.NoError(t, NewTeamService(db).Delete(project.TeamID))
}

func TestTeamNameUniqueness(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewTeamService(db)

	alpha, err := svc.Create(&dto.CreateTeamRequest{Name: "Alpha"})
	require.NoError(t, err)

	_, err = svc.Create(&dto.CreateTeamRequest{Name: "Alpha"})
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, `Team with name "Alpha" already exists`, ce.Error())

	// keeping its own name is not a collision
	_, err = svc.Update(alpha.ID, &dto.UpdateTeamRequest{Name: dto.Some("Alpha")})
	assert.NoError(t, err)

	beta, err := svc.Create(&dto.CreateTeamRequest{Name: "Beta"})
	require.NoError(t, err)
	_, err = svc.Update(beta.ID, &dto.UpdateTeamRequest{Name: dto.Some("Alpha")})
	assert.True(t, errors.As(err, &ce))

	teams, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, teams, 2)
}

func TestStoreUniqueIndexIsAuthoritative(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Create(&models.Team{Name: "Racing"}).Error)

	// simulates a writer that slipped past the pre-check
	err := storeError("create team", db.Create(&models.Team{Name: "Racing"}).Error, teamNameTaken("Racing"))
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, `Team with name "Racing" already exists`, ce.Error())
}

func TestTeamMembership(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewTeamService(db)
	team, err := svc.Create(&dto.CreateTeamRequest{Name: "Ops"})
	require.NoError(t, err)
	user := seedUser(t, db, "mario")

	added, err := svc.AddMember(team.ID, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, "User added to team successfully", added.Message)
	require.Len(t, added.Team.Members, 1)
	assert.Equal(t, dto.UserSummary{ID: user.ID, Username: "mario", Name: "User mario"}, added.Team.Members[0])

	_, err = svc.AddMember(team.ID, &user.ID)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "User is already a member of this team", ce.Error())

	_, err = svc.AddMember(team.ID, uintPtr(999))
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "User not found", nf.Error())

	_, err = svc.AddMember(team.ID, nil)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	removed, err := svc.RemoveMember(team.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, removed.Team.Members)

	_, err = svc.RemoveMember(team.ID, user.ID)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "User is not a member of this team", nf.Error())
}

func TestTaskAssigneeAndNames(t *testing.T) {
	db := testutil.NewTestDB(t)
	project := seedProject(t, db)
	user := seedUser(t, db, "luigi")
	svc := NewTaskService(db)

	_, err := svc.CreateInProject(project.ID, &dto.CreateTaskRequest{Name: "Copy", Status: "To Do", AssigneeID: uintPtr(999)})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "User with id 999 not found", nf.Error())

	_, err = svc.Create(&dto.CreateTaskRequest{Name: "Orphan", Status: "To Do"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	task, err := svc.Create(&dto.CreateTaskRequest{
		ProjectID:  &project.ID,
		Name:       "Copy",
		Status:     "To Do",
		AssigneeID: &user.ID,
		DueDate:    strPtr("2025-02-01T09:00:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Website", task.ProjectName)
	require.NotNil(t, task.AssigneeName)
	assert.Equal(t, "User luigi", *task.AssigneeName)
	assert.Equal(t, "2025-02-01T09:00:00Z", *task.DueDate)

	unassigned, err := svc.Update(task.ID, &dto.UpdateTaskRequest{AssigneeID: dto.Null[uint]()})
	require.NoError(t, err)
	assert.Nil(t, unassigned.AssigneeID)
	assert.Nil(t, unassigned.AssigneeName)
	assert.Equal(t, task.DueDate, unassigned.DueDate)

	byProject, err := svc.ListByProject(project.ID)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	_, err = svc.ListByProject(999)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Project with id 999 not found", nf.Error())
}

func TestUserDeleteClearsReferences(t *testing.T) {
	db := testutil.NewTestDB(t)
	project := seedProject(t, db)
	user := seedUser(t, db, "peach")

	task, err := NewTaskService(db).CreateInProject(project.ID, &dto.CreateTaskRequest{Name: "QA", Status: "To Do", AssigneeID: &user.ID})
	require.NoError(t, err)
	feedback, err := NewFeedbackService(db).Create(&user.ID, &dto.CreateFeedbackRequest{Subject: "Hi", Message: "Great"})
	require.NoError(t, err)
	_, err = NewTeamService(db).AddMember(project.TeamID, &user.ID)
	require.NoError(t, err)

	require.NoError(t, NewUserService(db).Delete(user.ID))

	reloaded, err := NewTaskService(db).Get(task.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.AssigneeID)

	fb, err := NewFeedbackService(db).Get(feedback.ID)
	require.NoError(t, err)
	assert.Nil(t, fb.UserID)

	assert.Zero(t, countRows(t, db, &models.TeamMember{}))
	assert.Zero(t, countRows(t, db, &models.User{}))
}

func TestFeedbackAnonymous(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewFeedbackService(db)

	fb, err := svc.Create(nil, &dto.CreateFeedbackRequest{Subject: "Bug", Message: "Broken link", Name: strPtr("  "), Email: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, fb.UserID)
	assert.Nil(t, fb.Name)
	assert.Nil(t, fb.Email)
	assert.NotEmpty(t, fb.SubmissionDate)

	var row models.Feedback
	require.NoError(t, db.First(&row, fb.ID).Error)
	assert.Nil(t, row.UserID)
	assert.Nil(t, row.Name)
	assert.Nil(t, row.Email)

	_, err = svc.Create(nil, &dto.CreateFeedbackRequest{Subject: "Only subject"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestFeedbackFromVanishedUserIsAnonymous(t *testing.T) {
	db := testutil.NewTestDB(t)
	gone := uint(4242)

	fb, err := NewFeedbackService(db).Create(&gone, &dto.CreateFeedbackRequest{Subject: "Late", Message: "Sent after delete"})
	require.NoError(t, err)
	assert.Nil(t, fb.UserID)

	var row models.Feedback
	require.NoError(t, db.First(&row, fb.ID).Error)
	assert.Nil(t, row.UserID)
}

func TestMilestoneUpdateKeepsProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	project := seedProject(t, db)
	svc := NewMilestoneService(db)

	m, err := svc.Create(project.ID, &dto.CreateMilestoneRequest{Name: "Beta", Date: strPtr("2025-04-01T00:00:00Z")})
	require.NoError(t, err)

	updated, err := svc.Update(m.ID, &dto.UpdateMilestoneRequest{Name: dto.Some("Public beta")})
	require.NoError(t, err)
	assert.Equal(t, m.Date, updated.Date)
	assert.Equal(t, project.ID, updated.ProjectID)

	_, err = svc.Update(m.ID, &dto.UpdateMilestoneRequest{Date: dto.Null[string]()})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve), "date is required")
}

func TestProfileUpdateEmailConflict(t *testing.T) {
	db := testutil.NewTestDB(t)
	a := seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	svc := NewUserService(db)

	_, err := svc.UpdateProfile(a.ID, &dto.UpdateProfileRequest{Email: dto.Some("bob@example.com")})
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Email address already in use by another account", ce.Error())

	profile, err := svc.UpdateProfile(a.ID, &dto.UpdateProfileRequest{Name: dto.Some("Alice A.")})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", profile.Name)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, []uint{}, profile.Teams)
	assert.Zero(t, profile.TasksAssignedCount)
}

func repositoryProjectFilter(clientID, teamID *uint, status *string) repository.ProjectFilter {
	return repository.ProjectFilter{ClientID: clientID, TeamID: teamID, Status: status}
}

func TestUnknownUserLoginComparesAgainstRealHash(t *testing.T) {
	require.True(t, utils.IsPasswordHash(dummyHash))
	assert.NoError(t, utils.CheckPassword("pm-go-timing-equalizer", dummyHash))
	assert.Error(t, utils.CheckPassword("anything else", dummyHash))
}
