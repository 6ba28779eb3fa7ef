package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"philcali.me/catalog/internal/app"
	"philcali.me/catalog/internal/config"
	"philcali.me/catalog/internal/logging"
	"philcali.me/catalog/internal/routes"
)

type App struct {
	Router routes.Router
}

func NewApp() App {
	cfg, err := config.LoadListings()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %s", err))
	}
	logging.Setup(cfg.Log)
	router, err := app.Build(context.TODO(), cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to load AWS config: %s", err))
	}
	return App{
		Router: *router,
	}
}

func (app *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return app.Router.Invoke(request, ctx), nil
}

func main() {
	app := NewApp()
	lambda.Start(app.HandleRequest)
}
