package storage

import "go.uber.org/fx"

var Module = fx.Module("storage",
	fx.Provide(
		fx.Annotate(NewLocalSink, fx.As(new(Sink))),
	),
)
