package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-consumers/core"
)

var (
	_ gocmd.Commander[SignUpMessage]                   = (*SignUpCommand)(nil)
	_ gocmd.Commander[StartVerificationMessage]        = (*StartVerificationCommand)(nil)
	_ gocmd.Commander[ConfirmVerificationMessage]      = (*ConfirmVerificationCommand)(nil)
	_ gocmd.Commander[AttachLinkAccountSessionMessage] = (*AttachLinkAccountSessionCommand)(nil)

	_ MutatingService = (*core.Client)(nil)
)
