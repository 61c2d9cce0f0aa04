package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/avdeev21/accounts/pkg/auth"
)

// TaskPasswordReset is the task type consumed by the mail delivery worker.
const TaskPasswordReset = "email:password_reset"

type passwordResetPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// Queue hands reset tokens to the delivery worker through a Redis-backed
// asynq queue. Enqueued tasks are processed at least once, which is the
// delivery guarantee the reset flow relies on.
type Queue struct {
	client *asynq.Client
}

func NewQueue(redisAddr, redisPassword string, redisDB int) *Queue {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &Queue{client: client}
}

func (q *Queue) PasswordReset(ctx context.Context, user auth.User, token string) error {
	payload, err := json.Marshal(passwordResetPayload{
		UserID: user.ID.String(),
		Email:  user.Email,
		Token:  token,
	})
	if err != nil {
		return fmt.Errorf("marshal reset payload: %w", err)
	}

	task := asynq.NewTask(TaskPasswordReset, payload)
	if _, err := q.client.EnqueueContext(ctx, task, asynq.Queue("email"), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue reset email: %w", err)
	}
	return nil
}

func (q *Queue) Close() error { return q.client.Close() }
