// Package main runs the product copy API as an AWS Lambda function behind an
// API Gateway HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"productcopy/internal/bootstrap"
	"productcopy/internal/infra"
	"productcopy/internal/lambdaproxy"
)

type httpHandler func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// Built once per container; warm invocations reuse the clients.
	router, err := bootstrap.NewHandler(context.Background(), cfg, &logger, false)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application")
	}
	serve := lambdaproxy.Handler(router)

	lambda.Start(func(ctx context.Context, event json.RawMessage) (any, error) {
		return handleRequest(ctx, event, serve)
	})
}

func handleRequest(ctx context.Context, event json.RawMessage, serve httpHandler) (any, error) {
	// Warmup detection must run before anything else touches the event.
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup)
	}

	var req events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("decode http api event: %w", err)
	}
	return serve(ctx, req)
}
