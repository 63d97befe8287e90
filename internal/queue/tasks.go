package queue

type TaskType string

const (
	TaskSendEmail     TaskType = "send_email"
	TaskProcessAvatar TaskType = "process_avatar"
)

// Task is the envelope written to the tasks topic. Exactly one of the
// payload fields is set, matching Type.
type Task struct {
	ID     string      `json:"id"`
	Type   TaskType    `json:"type"`
	Email  *EmailTask  `json:"email,omitempty"`
	Avatar *AvatarTask `json:"avatar,omitempty"`
}

type EmailTask struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

type AvatarTask struct {
	UserID     uint64 `json:"user_id"`
	SourcePath string `json:"source_path"`
}
