package mail

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"blogapi/internal/queue"
	"blogapi/internal/repository"
)

// Worker executes queued mail tasks. It runs outside the request path;
// failures are logged by the queue consumer and never reach the caller.
type Worker struct {
	mailer   *Mailer
	userRepo repository.UserRepository
	siteName string
}

// NewWorker creates a Worker.
func NewWorker(mailer *Mailer, userRepo repository.UserRepository, siteName string) *Worker {
	return &Worker{
		mailer:   mailer,
		userRepo: userRepo,
		siteName: siteName,
	}
}

// Handle dispatches a queue task to the matching mail template.
func (w *Worker) Handle(task queue.Task) error {
	switch task.Handler {
	case queue.TaskSendVerificationEmail:
		return w.sendVerificationEmail(task.Args)
	case queue.TaskSendNewCommentEmail:
		return w.sendNewCommentEmail(task.Args)
	default:
		return fmt.Errorf("unknown task handler: %s", task.Handler)
	}
}

func (w *Worker) sendVerificationEmail(args map[string]string) error {
	userID := args["user_id"]
	var id uint64
	if _, err := fmt.Sscanf(userID, "%d", &id); err != nil {
		return fmt.Errorf("invalid user_id %q", userID)
	}

	user, err := w.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("user_id", userID).Warn("tried to send email to non-existing user")
			return nil
		}
		return err
	}

	return w.mailer.Send("verification_email", user.Email, map[string]string{
		"FirstName": user.FirstName,
		"SiteName":  w.siteName,
		"Token":     args["token"],
	})
}

func (w *Worker) sendNewCommentEmail(args map[string]string) error {
	target := args["email"]
	if target == "" {
		return errors.New("missing target email")
	}
	return w.mailer.Send("new_comment", target, map[string]string{
		"PostLink": args["post_link"],
	})
}
