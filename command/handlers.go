package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-consumers/core"
)

// MutatingService is the subset of core.ConsumersAPI the commands drive.
type MutatingService interface {
	SignUp(ctx context.Context, req core.SignUpRequest, options core.RequestOptions) core.SignupResult
	StartConsumerVerification(
		ctx context.Context,
		req core.StartVerificationRequest,
		options core.RequestOptions,
	) (core.ConsumerSession, error)
	ConfirmConsumerVerification(
		ctx context.Context,
		req core.ConfirmVerificationRequest,
		options core.RequestOptions,
	) (core.ConsumerSession, error)
	AttachLinkConsumerToLinkAccountSession(
		ctx context.Context,
		req core.AttachLinkAccountSessionRequest,
		options core.RequestOptions,
	) (core.AttachConsumerToLinkAccountSession, error)
}

type SignUpCommand struct {
	service MutatingService
}

func NewSignUpCommand(service MutatingService) *SignUpCommand {
	return &SignUpCommand{service: service}
}

// Execute stores the SignupResult and returns nil even on the failure arm;
// callers read the outcome from the result.
func (c *SignUpCommand) Execute(ctx context.Context, msg SignUpMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: sign up service is required")
	}
	storeResult(ctx, c.service.SignUp(ctx, msg.Request, msg.Options))
	return nil
}

type StartVerificationCommand struct {
	service MutatingService
}

func NewStartVerificationCommand(service MutatingService) *StartVerificationCommand {
	return &StartVerificationCommand{service: service}
}

func (c *StartVerificationCommand) Execute(ctx context.Context, msg StartVerificationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: start verification service is required")
	}
	out, err := c.service.StartConsumerVerification(ctx, msg.Request, msg.Options)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ConfirmVerificationCommand struct {
	service MutatingService
}

func NewConfirmVerificationCommand(service MutatingService) *ConfirmVerificationCommand {
	return &ConfirmVerificationCommand{service: service}
}

func (c *ConfirmVerificationCommand) Execute(ctx context.Context, msg ConfirmVerificationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: confirm verification service is required")
	}
	out, err := c.service.ConfirmConsumerVerification(ctx, msg.Request, msg.Options)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type AttachLinkAccountSessionCommand struct {
	service MutatingService
}

func NewAttachLinkAccountSessionCommand(service MutatingService) *AttachLinkAccountSessionCommand {
	return &AttachLinkAccountSessionCommand{service: service}
}

func (c *AttachLinkAccountSessionCommand) Execute(ctx context.Context, msg AttachLinkAccountSessionMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: attach link account session service is required")
	}
	out, err := c.service.AttachLinkConsumerToLinkAccountSession(ctx, msg.Request, msg.Options)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
