package entity

type ToolName string

const (
	ToolListTasks        ToolName = "list_tasks"
	ToolAddTask          ToolName = "add_task"
	ToolUpdateTaskStatus ToolName = "update_task_status"
	ToolDeleteTask       ToolName = "delete_task"
)

func (t ToolName) String() string {
	return string(t)
}
