package validate

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskdeck/service-task-go/internal/apperror"
)

func strPtr(s string) *string { return &s }

func TestRegisterInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      RegisterInput
		wantErr bool
	}{
		{"valid", RegisterInput{Name: "E2E", Email: "e2e@x.com", Password: "password123"}, false},
		{"short name", RegisterInput{Name: "A", Email: "a@x.com", Password: "password123"}, true},
		{"bad email", RegisterInput{Name: "User", Email: "not-an-email", Password: "password123"}, true},
		{"short password", RegisterInput{Name: "User", Email: "a@x.com", Password: "123"}, true},
		{"all empty", RegisterInput{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, apperror.StatusCode(err))
				assert.Equal(t, "validation_failed", apperror.SafeKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginInput_Validate(t *testing.T) {
	assert.NoError(t, LoginInput{Email: "a@x.com", Password: "p"}.Validate())
	assert.Error(t, LoginInput{Email: "a@x.com"}.Validate())
	assert.Error(t, LoginInput{Email: "nope", Password: "p"}.Validate())
}

func TestCreateTaskInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      CreateTaskInput
		wantErr bool
	}{
		{"minimal", CreateTaskInput{Title: "T1"}, false},
		{"full", CreateTaskInput{Title: "T1", Description: strPtr("d"), Priority: strPtr("HIGH"), DueDate: strPtr("2026-10-01T12:00:00Z")}, false},
		{"missing title", CreateTaskInput{}, true},
		{"blank title", CreateTaskInput{Title: "   "}, true},
		{"bad priority", CreateTaskInput{Title: "T1", Priority: strPtr("URGENT")}, true},
		{"bad due date", CreateTaskInput{Title: "T1", DueDate: strPtr("tomorrow")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateTaskInput_Validate(t *testing.T) {
	assert.NoError(t, UpdateTaskInput{}.Validate(), "empty partial update is valid")
	assert.NoError(t, UpdateTaskInput{Status: strPtr("IN_PROGRESS")}.Validate())
	assert.NoError(t, UpdateTaskInput{DueDate: strPtr("")}.Validate(), "empty due date clears it")
	assert.Error(t, UpdateTaskInput{Status: strPtr("DOING")}.Validate())
	assert.Error(t, UpdateTaskInput{Priority: strPtr("urgent")}.Validate())
	assert.Error(t, UpdateTaskInput{Title: strPtr("  ")}.Validate())
}

func TestEmailShape(t *testing.T) {
	valid := []string{"a@b.co", "e2e@x.com", "first.last@sub.domain.org"}
	invalid := []string{"", "plain", "@x.com", "a@", "a@nodot", "a@.com", "two@@x.com", "has space@x.com"}

	for _, e := range valid {
		assert.True(t, emailShape(e), e)
	}
	for _, e := range invalid {
		assert.False(t, emailShape(e), e)
	}
}
