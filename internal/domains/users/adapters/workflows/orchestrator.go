package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	userapp "github.com/Apurer/go-gin-user-directory/internal/domains/users/application"
	usertypes "github.com/Apurer/go-gin-user-directory/internal/domains/users/application/types"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"
	useractivities "github.com/Apurer/go-gin-user-directory/internal/durable/temporal/activities/users"
	userworkflows "github.com/Apurer/go-gin-user-directory/internal/durable/temporal/workflows/users"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalUserWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineUserWorkflows)(nil)
)

// TemporalUserWorkflows starts user workflows on a Temporal cluster.
type TemporalUserWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalUserWorkflows wires a Temporal client into the orchestrator.
func NewTemporalUserWorkflows(c client.Client) *TemporalUserWorkflows {
	return &TemporalUserWorkflows{client: c, taskQueue: userworkflows.UserCreationTaskQueue}
}

// CreateUser runs the creation workflow and waits for the generated id.
// Workflow ids are derived from the email, so concurrent creates of one email
// share an id; the later caller waits for the running creation and reports its outcome.
func (o *TemporalUserWorkflows) CreateUser(ctx context.Context, input usertypes.CreateUserInput) (string, error) {
	if o == nil || o.client == nil {
		return "", errors.New("temporal user workflows not configured")
	}
	if _, err := domain.NewUser(input.FirstName, input.LastName, input.Email); err != nil {
		return "", userapp.MapError(err)
	}
	traceID := workflowTraceID(ctx)
	options := client.StartWorkflowOptions{
		ID:                                       BuildUserCreationWorkflowID(input.Email),
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		userworkflows.UserCreationWorkflowName,
		userworkflows.UserCreationWorkflowInput{Command: input, TraceID: traceID},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return "", o.awaitRunningCreation(ctx, options.ID, alreadyStarted.RunId)
		}
		return "", mapWorkflowError(err)
	}
	var id string
	if err := run.Get(ctx, &id); err != nil {
		return "", mapWorkflowError(err)
	}
	return id, nil
}

// awaitRunningCreation waits for the creation already holding the workflow id.
// A successful run owns the email, so the caller is a duplicate; a failed run
// surfaces its own error.
func (o *TemporalUserWorkflows) awaitRunningCreation(ctx context.Context, workflowID, runID string) error {
	var ignored string
	if err := o.client.GetWorkflow(ctx, workflowID, runID).Get(ctx, &ignored); err != nil {
		return mapWorkflowError(err)
	}
	return userapp.MapError(domain.ErrEmailExists)
}

// InlineUserWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineUserWorkflows struct {
	service ports.Service
}

func NewInlineUserWorkflows(service ports.Service) *InlineUserWorkflows {
	return &InlineUserWorkflows{service: service}
}

// CreateUser delegates to the application service without durable orchestration.
func (o *InlineUserWorkflows) CreateUser(ctx context.Context, input usertypes.CreateUserInput) (string, error) {
	if o == nil || o.service == nil {
		return "", errors.New("inline user workflows not configured")
	}
	return o.service.CreateUser(ctx, input)
}

// BuildUserCreationWorkflowID is stable for a given trimmed email.
func BuildUserCreationWorkflowID(email string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(email)))
	return fmt.Sprintf("user-creation-%s", hex.EncodeToString(sum[:8]))
}

func mapWorkflowError(err error) error {
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return userapp.MapError(domain.ErrEmailExists)
	}
	if sentinel := useractivities.FromApplicationError(err); sentinel != nil {
		return userapp.MapError(sentinel)
	}
	return err
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
