// Package clickup creates tasks through the ClickUp v2 API.
package clickup

// TaskRequest is the body of POST /list/{list_id}/task.
type TaskRequest struct {
	Name            string   `json:"name"`
	MarkdownContent string   `json:"markdown_content,omitempty"`
	DueDate         int64    `json:"due_date,omitempty"` // Unix ms
	DueDateTime     bool     `json:"due_date_time,omitempty"`
	Priority        int      `json:"priority,omitempty"` // 1 urgent .. 4 low
	Tags            []string `json:"tags,omitempty"`
}

// taskResponse picks the fields we log from the task ClickUp returns.
type taskResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
