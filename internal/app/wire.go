//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/pipeline"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

// InitializeApp wires the HTTP server and everything behind it.
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(pipelineSet, serverSet)
	return &App{}, nil, nil
}

// InitializePipeline wires a pipeline without the HTTP layer, for one-shot CLI runs.
func InitializePipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	wire.Build(pipelineSet)
	return &pipeline.Pipeline{}, nil, nil
}
