package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker/internal/database"
	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/logger"
	"github.com/yukikurage/project-tracker/internal/models"
)

// RepositoryTestSuite runs every repository against an in-memory SQLite database
type RepositoryTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	users    UserRepository
	projects ProjectRepository
	tasks    TaskRepository
}

// SetupTest runs before each test
func (suite *RepositoryTestSuite) SetupTest() {
	var err error
	suite.ctx = context.Background()

	suite.db, err = database.Open(":memory:", logger.Nop(), database.Options{})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(suite.db, logger.Nop()))

	suite.users = NewUserRepository(suite.db)
	suite.projects = NewProjectRepository(suite.db)
	suite.tasks = NewTaskRepository(suite.db)
}

// TearDownTest runs after each test
func (suite *RepositoryTestSuite) TearDownTest() {
	suite.Require().NoError(database.Close(suite.db))
}

func (suite *RepositoryTestSuite) createUser(name string) *models.User {
	user := &models.User{
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.users.Create(suite.ctx, user))
	return user
}

func (suite *RepositoryTestSuite) createProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
		Status:  models.ProjectStatusActive,
		Color:   models.DefaultProjectColor,
	}
	suite.Require().NoError(suite.projects.CreateWithOwner(suite.ctx, project))
	return project
}

func (suite *RepositoryTestSuite) createTask(title string, projectID, creatorID uint64, status models.TaskStatus, position int) *models.Task {
	task := &models.Task{
		Title:     title,
		ProjectID: projectID,
		CreatedBy: creatorID,
		Status:    status,
		Priority:  models.TaskPriorityMedium,
		Position:  position,
	}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task))
	return task
}

func (suite *RepositoryTestSuite) count(model interface{}, query string, args ...interface{}) int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func (suite *RepositoryTestSuite) TestUser_DuplicateEmailIsConflict() {
	suite.createUser("alice")

	err := suite.users.Create(suite.ctx, &models.User{
		Email:        "alice@example.com",
		Username:     "someone-else",
		PasswordHash: "x",
	})

	suite.ErrorIs(err, apierrors.ErrConflict)
}

func (suite *RepositoryTestSuite) TestUser_DuplicateUsernameIsConflict() {
	suite.createUser("alice")

	err := suite.users.Create(suite.ctx, &models.User{
		Email:        "other@example.com",
		Username:     "alice",
		PasswordHash: "x",
	})

	suite.ErrorIs(err, apierrors.ErrConflict)
}

func (suite *RepositoryTestSuite) TestUser_FindVariants() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")

	byEmail, err := suite.users.FindByEmail(suite.ctx, "alice@example.com")
	suite.Require().NoError(err)
	suite.Equal(alice.ID, byEmail.ID)

	byName, err := suite.users.FindByUsername(suite.ctx, "bob")
	suite.Require().NoError(err)
	suite.Equal(bob.ID, byName.ID)

	_, err = suite.users.FindByID(suite.ctx, 9999)
	suite.ErrorIs(err, apierrors.ErrNotFound)

	found, err := suite.users.FindByIDs(suite.ctx, []uint64{alice.ID, bob.ID, 9999})
	suite.Require().NoError(err)
	suite.Len(found, 2)
	suite.Equal("bob", found[bob.ID].Username)

	empty, err := suite.users.FindByIDs(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(empty)
}

func (suite *RepositoryTestSuite) TestProject_CreateWithMissingOwnerCreatesNoRow() {
	err := suite.projects.CreateWithOwner(suite.ctx, &models.Project{
		Name:    "Ghost",
		OwnerID: 4242,
		Status:  models.ProjectStatusActive,
		Color:   models.DefaultProjectColor,
	})

	suite.ErrorIs(err, apierrors.ErrInvalidReference)
	suite.Equal(int64(0), suite.count(&models.Project{}, "1 = 1"))
	suite.Equal(int64(0), suite.count(&models.ProjectMember{}, "1 = 1"))
}

func (suite *RepositoryTestSuite) TestProject_CreateWithOwnerAddsOwnerMembership() {
	owner := suite.createUser("owner")
	project := suite.createProject("Alpha", owner.ID)

	member, err := suite.projects.FindMember(suite.ctx, project.ID, owner.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleOwner, member.Role)
	suite.False(member.JoinedAt.IsZero())
	suite.False(project.CreatedAt.IsZero())
	suite.False(project.UpdatedAt.IsZero())
}

func (suite *RepositoryTestSuite) TestProject_UpdateRefreshesUpdatedAt() {
	owner := suite.createUser("owner")
	project := suite.createProject("Alpha", owner.ID)
	before := project.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	project.Name = "Alpha v2"
	suite.Require().NoError(suite.projects.Update(suite.ctx, project))

	reloaded, err := suite.projects.FindByID(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal("Alpha v2", reloaded.Name)
	suite.True(reloaded.UpdatedAt.After(before))
}

func (suite *RepositoryTestSuite) TestTask_UpdateRefreshesUpdatedAt() {
	owner := suite.createUser("owner")
	project := suite.createProject("Alpha", owner.ID)
	task := suite.createTask("Draft", project.ID, owner.ID, models.TaskStatusTodo, 0)
	createdAt := task.CreatedAt
	before := task.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	task.Status = models.TaskStatusInProgress
	suite.Require().NoError(suite.tasks.Update(suite.ctx, task))

	reloaded, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, reloaded.Status)
	suite.True(reloaded.UpdatedAt.After(before))
	suite.True(reloaded.CreatedAt.Equal(createdAt))
}

func (suite *RepositoryTestSuite) TestProject_DeleteCascadesTasksAndMembers() {
	owner := suite.createUser("owner")
	other := suite.createUser("other")
	doomed := suite.createProject("Doomed", owner.ID)
	kept := suite.createProject("Kept", owner.ID)
	suite.Require().NoError(suite.projects.AddMember(suite.ctx, &models.ProjectMember{UserID: other.ID, ProjectID: doomed.ID, Role: models.RoleMember}))

	suite.createTask("one", doomed.ID, owner.ID, models.TaskStatusTodo, 0)
	suite.createTask("two", doomed.ID, other.ID, models.TaskStatusDone, 1)
	suite.createTask("survivor", kept.ID, owner.ID, models.TaskStatusTodo, 0)

	suite.Require().NoError(suite.projects.Delete(suite.ctx, doomed.ID))

	suite.Equal(int64(0), suite.count(&models.Task{}, "project_id = ?", doomed.ID))
	suite.Equal(int64(0), suite.count(&models.ProjectMember{}, "project_id = ?", doomed.ID))
	suite.Equal(int64(1), suite.count(&models.Task{}, "project_id = ?", kept.ID))

	_, err := suite.projects.FindByID(suite.ctx, doomed.ID)
	suite.ErrorIs(err, apierrors.ErrNotFound)

	suite.ErrorIs(suite.projects.Delete(suite.ctx, doomed.ID), apierrors.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestProject_AddMemberTwiceKeepsOneRow() {
	owner := suite.createUser("owner")
	member := suite.createUser("member")
	project := suite.createProject("Alpha", owner.ID)

	suite.Require().NoError(suite.projects.AddMember(suite.ctx, &models.ProjectMember{UserID: member.ID, ProjectID: project.ID, Role: models.RoleMember}))
	suite.Require().NoError(suite.projects.AddMember(suite.ctx, &models.ProjectMember{UserID: member.ID, ProjectID: project.ID, Role: models.RoleAdmin}))

	suite.Equal(int64(1), suite.count(&models.ProjectMember{}, "project_id = ? AND user_id = ?", project.ID, member.ID))

	stored, err := suite.projects.FindMember(suite.ctx, project.ID, member.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, stored.Role)
}

func (suite *RepositoryTestSuite) TestProject_AddMemberUnknownUser() {
	owner := suite.createUser("owner")
	project := suite.createProject("Alpha", owner.ID)

	err := suite.projects.AddMember(suite.ctx, &models.ProjectMember{UserID: 777, ProjectID: project.ID, Role: models.RoleMember})
	suite.ErrorIs(err, apierrors.ErrInvalidReference)
}

func (suite *RepositoryTestSuite) TestProject_MembershipQueries() {
	owner := suite.createUser("owner")
	member := suite.createUser("member")
	alpha := suite.createProject("Alpha", owner.ID)
	beta := suite.createProject("Beta", member.ID)
	suite.Require().NoError(suite.projects.AddMember(suite.ctx, &models.ProjectMember{UserID: member.ID, ProjectID: alpha.ID, Role: models.RoleMember}))

	members, err := suite.projects.ListMembers(suite.ctx, alpha.ID)
	suite.Require().NoError(err)
	suite.Len(members, 2)
	for _, m := range members {
		suite.Require().NotNil(m.User)
	}

	memberships, err := suite.projects.ListForMember(suite.ctx, member.ID)
	suite.Require().NoError(err)
	suite.Len(memberships, 2)
	names := []string{memberships[0].Project.Name, memberships[1].Project.Name}
	suite.ElementsMatch([]string{"Alpha", "Beta"}, names)

	owned, err := suite.projects.ListByOwner(suite.ctx, member.ID)
	suite.Require().NoError(err)
	suite.Require().Len(owned, 1)
	suite.Equal(beta.ID, owned[0].ID)

	suite.Require().NoError(suite.projects.RemoveMember(suite.ctx, alpha.ID, member.ID))
	suite.ErrorIs(suite.projects.RemoveMember(suite.ctx, alpha.ID, member.ID), apierrors.ErrNotFound)
	_, err = suite.projects.FindMember(suite.ctx, alpha.ID, member.ID)
	suite.ErrorIs(err, apierrors.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestTask_CreateWithMissingReferences() {
	owner := suite.createUser("owner")
	project := suite.createProject("Alpha", owner.ID)
	ghost := uint64(31337)

	err := suite.tasks.Create(suite.ctx, &models.Task{Title: "no project", ProjectID: 999, CreatedBy: owner.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium})
	suite.ErrorIs(err, apierrors.ErrInvalidReference)

	err = suite.tasks.Create(suite.ctx, &models.Task{Title: "no creator", ProjectID: project.ID, CreatedBy: ghost, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium})
	suite.ErrorIs(err, apierrors.ErrInvalidReference)

	err = suite.tasks.Create(suite.ctx, &models.Task{Title: "no assignee", ProjectID: project.ID, CreatedBy: owner.ID, AssigneeID: &ghost, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium})
	suite.ErrorIs(err, apierrors.ErrInvalidReference)

	suite.Equal(int64(0), suite.count(&models.Task{}, "1 = 1"))
}

func (suite *RepositoryTestSuite) TestTask_FindByIDLoadsPeople() {
	owner := suite.createUser("owner")
	assignee := suite.createUser("assignee")
	project := suite.createProject("Alpha", owner.ID)

	task := &models.Task{
		Title:      "Review",
		ProjectID:  project.ID,
		CreatedBy:  owner.ID,
		AssigneeID: &assignee.ID,
		Status:     models.TaskStatusInProgress,
		Priority:   models.TaskPriorityHigh,
	}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task))

	found, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(found.Assignee)
	suite.Require().NotNil(found.Creator)
	suite.Equal("assignee", found.Assignee.Username)
	suite.Equal("owner", found.Creator.Username)

	out := found.Serialize()
	suite.NotContains(out["assignee"], "password_hash")
	suite.NotContains(out["creator"], "password_hash")
}

func (suite *RepositoryTestSuite) TestTask_UpdateIgnoresStaleRelations() {
	owner := suite.createUser("owner")
	first := suite.createUser("first")
	second := suite.createUser("second")
	project := suite.createProject("Alpha", owner.ID)

	task := &models.Task{Title: "Move me", ProjectID: project.ID, CreatedBy: owner.ID, AssigneeID: &first.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task))

	loaded, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	loaded.AssigneeID = &second.ID
	suite.Require().NoError(suite.tasks.Update(suite.ctx, loaded))

	reloaded, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(reloaded.AssigneeID)
	suite.Equal(second.ID, *reloaded.AssigneeID)
	suite.Equal("second", reloaded.Assignee.Username)
}

func (suite *RepositoryTestSuite) TestTask_ListByProjectOrdersAndFilters() {
	owner := suite.createUser("owner")
	project := suite.createProject("Alpha", owner.ID)
	other := suite.createProject("Other", owner.ID)

	suite.createTask("todo-2", project.ID, owner.ID, models.TaskStatusTodo, 2)
	suite.createTask("done-0", project.ID, owner.ID, models.TaskStatusDone, 0)
	suite.createTask("todo-1", project.ID, owner.ID, models.TaskStatusTodo, 1)
	suite.createTask("elsewhere", other.ID, owner.ID, models.TaskStatusTodo, 0)

	tasks, total, err := suite.tasks.ListByProject(suite.ctx, TaskFilter{ProjectID: project.ID})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(tasks, 3)
	suite.Equal([]string{"done-0", "todo-1", "todo-2"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})
	suite.Nil(tasks[0].Creator)

	todo := models.TaskStatusTodo
	tasks, total, err = suite.tasks.ListByProject(suite.ctx, TaskFilter{ProjectID: project.ID, Status: &todo, Page: 2, PageSize: 1})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Require().Len(tasks, 1)
	suite.Equal("todo-2", tasks[0].Title)
}

func (suite *RepositoryTestSuite) TestTask_Delete() {
	owner := suite.createUser("owner")
	project := suite.createProject("Alpha", owner.ID)
	task := suite.createTask("gone", project.ID, owner.ID, models.TaskStatusTodo, 0)

	suite.Require().NoError(suite.tasks.Delete(suite.ctx, task.ID))
	suite.ErrorIs(suite.tasks.Delete(suite.ctx, task.ID), apierrors.ErrNotFound)

	count, err := suite.projects.CountTasks(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(0), count)
}

func (suite *RepositoryTestSuite) TestUser_DeleteRestrictedByOwnedProjects() {
	owner := suite.createUser("owner")
	suite.createProject("Alpha", owner.ID)

	err := suite.users.Delete(suite.ctx, owner.ID)
	suite.ErrorIs(err, apierrors.ErrHasDependents)

	_, err = suite.users.FindByID(suite.ctx, owner.ID)
	suite.NoError(err)
}

func (suite *RepositoryTestSuite) TestUser_DeleteRestrictedByCreatedTasks() {
	owner := suite.createUser("owner")
	author := suite.createUser("author")
	project := suite.createProject("Alpha", owner.ID)
	suite.createTask("written", project.ID, author.ID, models.TaskStatusTodo, 0)

	suite.ErrorIs(suite.users.Delete(suite.ctx, author.ID), apierrors.ErrHasDependents)
}

func (suite *RepositoryTestSuite) TestUser_DeleteClearsAssignmentsAndMemberships() {
	owner := suite.createUser("owner")
	helper := suite.createUser("helper")
	project := suite.createProject("Alpha", owner.ID)
	suite.Require().NoError(suite.projects.AddMember(suite.ctx, &models.ProjectMember{UserID: helper.ID, ProjectID: project.ID, Role: models.RoleMember}))

	task := &models.Task{Title: "Assigned", ProjectID: project.ID, CreatedBy: owner.ID, AssigneeID: &helper.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task))

	suite.Require().NoError(suite.users.Delete(suite.ctx, helper.ID))

	reloaded, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Nil(reloaded.AssigneeID)
	suite.Nil(reloaded.Assignee)
	suite.Equal(int64(0), suite.count(&models.ProjectMember{}, "user_id = ?", helper.ID))

	suite.ErrorIs(suite.users.Delete(suite.ctx, helper.ID), apierrors.ErrNotFound)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
