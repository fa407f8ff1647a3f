package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/task_service/internal/domain"
)

func TestNewTaskView_OwnershipShapes(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	personal, err := json.Marshal(NewTaskView(domain.Task{
		ID: "t1", Name: "Buy milk", Status: "pending", DueDate: "2025-01-01",
		Owner: domain.Personal{Owner: "u1"}, CreatedAt: at,
	}))
	require.NoError(t, err)

	var p map[string]any
	require.NoError(t, json.Unmarshal(personal, &p))
	assert.Equal(t, "u1", p["userId"])
	assert.NotContains(t, p, "groupId")
	assert.NotContains(t, p, "assignedTo")

	group, err := json.Marshal(NewTaskView(domain.Task{
		ID: "t2", Name: "Clean", Status: "pending",
		Owner: domain.GroupAssigned{Creator: "a", Assignee: "u1", Group: "g1"}, CreatedAt: at,
	}))
	require.NoError(t, err)

	var g map[string]any
	require.NoError(t, json.Unmarshal(group, &g))
	assert.Equal(t, "a", g["createdBy"])
	assert.Equal(t, "u1", g["assignedTo"])
	assert.Equal(t, "g1", g["groupId"])
	assert.NotContains(t, g, "userId")
	assert.NotContains(t, g, "dueDate")
}

func TestNewTaskViews_NeverNil(t *testing.T) {
	b, err := json.Marshal(TasksResponse{Tasks: NewTaskViews(nil)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[]}`, string(b))
}
