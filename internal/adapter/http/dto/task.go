package dto

type TaskItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	Status      *string `json:"status" binding:"omitempty,oneof=Todo InProgress Completed"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
	DueDate     *string `json:"due_date" binding:"omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	Status      *string `json:"status" binding:"omitempty,oneof=Todo InProgress Completed"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
	DueDate     *string `json:"due_date" binding:"omitempty"`
}
