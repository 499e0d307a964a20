package db

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard-dev/taskboard/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	database, err := Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, MigrateDatabase(database))

	return database
}

func seedOwnedTask(t *testing.T, database *gorm.DB) (models.User, models.Project, models.Task) {
	t.Helper()

	user := models.User{Email: "cascade@test.com", PasswordHash: "x", Role: models.DefaultUserRole}
	require.NoError(t, database.Create(&user).Error)

	project := models.Project{Name: "Cascade", Status: models.ProjectStatusActive, UserID: user.ID}
	require.NoError(t, database.Create(&project).Error)

	task := models.Task{
		Title:     "Cascade task",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		UserID:    &user.ID,
		ProjectID: &project.ID,
	}
	require.NoError(t, database.Create(&task).Error)

	return user, project, task
}

func TestDeleteProjectCascadesToTasks(t *testing.T) {
	database := openTestDB(t)

	_, project, _ := seedOwnedTask(t, database)

	require.NoError(t, database.Delete(&models.Project{}, project.ID).Error)

	var count int64
	require.NoError(t, database.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteUserCascadesToProjectsAndTasks(t *testing.T) {
	database := openTestDB(t)

	user, _, _ := seedOwnedTask(t, database)

	require.NoError(t, database.Delete(&models.User{}, user.ID).Error)

	var projectCount int64
	require.NoError(t, database.Model(&models.Project{}).Where("user_id = ?", user.ID).Count(&projectCount).Error)
	assert.Zero(t, projectCount)

	var taskCount int64
	require.NoError(t, database.Model(&models.Task{}).Where("user_id = ?", user.ID).Count(&taskCount).Error)
	assert.Zero(t, taskCount)
}

func TestSQLiteDSNEnablesForeignKeys(t *testing.T) {
	assert.Equal(t, "taskboard.db?_foreign_keys=on", sqliteDSN("taskboard.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "taskboard.db?_foreign_keys=off", sqliteDSN("taskboard.db?_foreign_keys=off"))
}
