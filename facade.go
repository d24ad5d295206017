package consumers

import (
	consumerscommand "github.com/goliatone/go-consumers/command"
	"github.com/goliatone/go-consumers/core"
	consumersquery "github.com/goliatone/go-consumers/query"
	goerrors "github.com/goliatone/go-errors"
)

type Commands struct {
	SignUp                   *consumerscommand.SignUpCommand
	StartVerification        *consumerscommand.StartVerificationCommand
	ConfirmVerification      *consumerscommand.ConfirmVerificationCommand
	AttachLinkAccountSession *consumerscommand.AttachLinkAccountSessionCommand
}

type Queries struct {
	LookupConsumerSession *consumersquery.LookupConsumerSessionQuery
}

// Facade exposes a ConsumersAPI as go-command handlers.
type Facade struct {
	api      core.ConsumersAPI
	commands Commands
	queries  Queries
}

func NewFacade(api core.ConsumersAPI) (*Facade, error) {
	if api == nil {
		return nil, goerrors.New("consumers: consumers api is required", goerrors.CategoryInternal).
			WithTextCode(core.ConsumersErrorInternal)
	}
	return &Facade{
		api: api,
		commands: Commands{
			SignUp:                   consumerscommand.NewSignUpCommand(api),
			StartVerification:        consumerscommand.NewStartVerificationCommand(api),
			ConfirmVerification:      consumerscommand.NewConfirmVerificationCommand(api),
			AttachLinkAccountSession: consumerscommand.NewAttachLinkAccountSessionCommand(api),
		},
		queries: Queries{
			LookupConsumerSession: consumersquery.NewLookupConsumerSessionQuery(api),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) API() core.ConsumersAPI {
	if f == nil {
		return nil
	}
	return f.api
}
