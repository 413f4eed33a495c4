package shrink

import "go.uber.org/fx"

var Module = fx.Module("shrink",
	fx.Provide(NewService),
)
