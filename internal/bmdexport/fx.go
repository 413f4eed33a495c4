package bmdexport

import (
	"go.uber.org/fx"
)

var Module = fx.Module("bmdexport",
	fx.Provide(
		NewRepository,
		NewService,
	),
)
