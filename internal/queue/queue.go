package queue

// Task handler names understood by the worker.
const (
	TaskSendVerificationEmail = "send_verification_email"
	TaskSendNewCommentEmail   = "send_new_comment_email"
)

// Task is the envelope placed on the queue: a handler name plus its
// arguments. Delivery is at-least-once and fire-and-forget from the
// enqueuing request's point of view.
type Task struct {
	Handler string            `json:"handler"`
	Args    map[string]string `json:"args"`
}

// Publisher is the enqueue side used by request handlers. Enqueue failure is
// the only error the core handles; delivery failure belongs to the worker.
type Publisher interface {
	Publish(task Task) error
}
