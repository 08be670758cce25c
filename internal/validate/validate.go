// Package validate checks request body shapes before the services run.
// It enforces field presence, minimum lengths, enum membership and date
// formats; uniqueness, existence and ownership stay with the services.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskdeck/service-task-go/internal/apperror"
	"github.com/taskdeck/service-task-go/internal/task/entity"
)

// FieldError describes one field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// joined flattens field errors into one client-safe message.
func joined(errs []FieldError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return apperror.Validation(strings.Join(parts, "; "))
}

// RegisterInput is the expected register body.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	var errs []FieldError
	if len(strings.TrimSpace(in.Name)) < 2 {
		errs = append(errs, FieldError{"name", "must be at least 2 characters"})
	}
	if !emailShape(in.Email) {
		errs = append(errs, FieldError{"email", "must be a valid email address"})
	}
	if len(in.Password) < 6 {
		errs = append(errs, FieldError{"password", "must be at least 6 characters"})
	}
	if len(errs) > 0 {
		return joined(errs)
	}
	return nil
}

// LoginInput is the expected login body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	var errs []FieldError
	if !emailShape(in.Email) {
		errs = append(errs, FieldError{"email", "must be a valid email address"})
	}
	if in.Password == "" {
		errs = append(errs, FieldError{"password", "is required"})
	}
	if len(errs) > 0 {
		return joined(errs)
	}
	return nil
}

// RefreshInput is the expected refresh body.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

func (in RefreshInput) Validate() error {
	if in.RefreshToken == "" {
		return joined([]FieldError{{"refreshToken", "is required"}})
	}
	return nil
}

// CreateTaskInput is the expected task-creation body. Priority and due date
// are optional; defaults are applied by the task service.
type CreateTaskInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

func (in CreateTaskInput) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, FieldError{"title", "is required"})
	}
	if in.Priority != nil && !entity.ValidPriority(entity.Priority(*in.Priority)) {
		errs = append(errs, FieldError{"priority", "must be one of LOW, MEDIUM, HIGH"})
	}
	if in.DueDate != nil {
		if _, err := time.Parse(time.RFC3339, *in.DueDate); err != nil {
			errs = append(errs, FieldError{"dueDate", "must be an RFC 3339 timestamp"})
		}
	}
	if len(errs) > 0 {
		return joined(errs)
	}
	return nil
}

// UpdateTaskInput is the expected partial-update body. Absent fields are
// left untouched by the service.
type UpdateTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

func (in UpdateTaskInput) Validate() error {
	var errs []FieldError
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		errs = append(errs, FieldError{"title", "must not be empty"})
	}
	if in.Status != nil && !entity.ValidStatus(entity.Status(*in.Status)) {
		errs = append(errs, FieldError{"status", "must be one of TODO, IN_PROGRESS, DONE"})
	}
	if in.Priority != nil && !entity.ValidPriority(entity.Priority(*in.Priority)) {
		errs = append(errs, FieldError{"priority", "must be one of LOW, MEDIUM, HIGH"})
	}
	if in.DueDate != nil && *in.DueDate != "" {
		if _, err := time.Parse(time.RFC3339, *in.DueDate); err != nil {
			errs = append(errs, FieldError{"dueDate", "must be an RFC 3339 timestamp"})
		}
	}
	if len(errs) > 0 {
		return joined(errs)
	}
	return nil
}

// emailShape is a minimal sanity check: one @, non-empty local part, and a
// domain containing a dot. Deliverability is not this layer's concern.
func emailShape(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.ContainsAny(email, " \t")
}
