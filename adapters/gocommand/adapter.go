package gocommand

import (
	"context"
	"net/http"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	goerrors "github.com/goliatone/go-errors"
	consumerscommand "github.com/goliatone/go-consumers/command"
	"github.com/goliatone/go-consumers/core"
	consumersquery "github.com/goliatone/go-consumers/query"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return adapterError("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return adapterError("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return adapterError("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return adapterError("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return adapterError("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return adapterError("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, adapterError("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, adapterError("gocommand: command is required")
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, adapterError("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, adapterError("gocommand: query is required")
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// Subscriptions holds every dispatcher subscription made for one client.
type Subscriptions struct {
	items []commanddispatcher.Subscription
}

func (s *Subscriptions) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

func (s *Subscriptions) Unsubscribe() {
	if s == nil {
		return
	}
	for _, item := range s.items {
		if item != nil {
			item.Unsubscribe()
		}
	}
	s.items = nil
}

// RegisterConsumerHandlers subscribes the four consumer commands and the
// session lookup query for api. On failure nothing stays subscribed.
func RegisterConsumerHandlers(
	adapter *RegistryAdapter,
	api core.ConsumersAPI,
	runnerOpts ...runner.Option,
) (*Subscriptions, error) {
	if api == nil {
		return nil, adapterError("gocommand: consumers api is required")
	}
	subs := &Subscriptions{}
	register := func(subscription commanddispatcher.Subscription, err error) error {
		if err != nil {
			subs.Unsubscribe()
			return err
		}
		subs.items = append(subs.items, subscription)
		return nil
	}

	if err := register(RegisterAndSubscribe[consumerscommand.SignUpMessage](adapter, consumerscommand.NewSignUpCommand(api), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := register(RegisterAndSubscribe[consumerscommand.StartVerificationMessage](adapter, consumerscommand.NewStartVerificationCommand(api), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := register(RegisterAndSubscribe[consumerscommand.ConfirmVerificationMessage](adapter, consumerscommand.NewConfirmVerificationCommand(api), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := register(RegisterAndSubscribe[consumerscommand.AttachLinkAccountSessionMessage](adapter, consumerscommand.NewAttachLinkAccountSessionCommand(api), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := register(RegisterAndSubscribeQuery[consumersquery.LookupConsumerSessionMessage, core.ConsumerSessionLookup](adapter, consumersquery.NewLookupConsumerSessionQuery(api), runnerOpts...)); err != nil {
		return nil, err
	}
	return subs, nil
}

func adapterError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.ConsumersErrorInternal)
}
