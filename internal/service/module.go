package service

import (
	"go.uber.org/fx"
)

var (
	Module = fx.Provide(
		NewToken,
		NewAuth,
		NewSubjects,
		NewGoals,
		NewTutorials,
		NewIdeas,
		NewStats,
		NewYouTube,
		func(y *YouTube) VideoProvider { return y },
	)
)
