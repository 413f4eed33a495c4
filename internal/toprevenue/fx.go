package toprevenue

import "go.uber.org/fx"

var Module = fx.Module("toprevenue",
	fx.Provide(NewService),
)
