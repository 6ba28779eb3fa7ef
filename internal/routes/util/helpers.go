package util

import (
	"encoding/json"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/catalog/internal/exceptions"
)

func JSONHeaders(body []byte) map[string]string {
	return map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
}

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    JSONHeaders(body),
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, 200)
}

// SerializeResponseNotFound answers an empty result: a 404 carrying an empty object.
func SerializeResponseNotFound() (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(IdentityThunk[struct{}], struct{}{}, nil, 404)
}

func IdentityThunk[T interface{}](thing T) T {
	return thing
}

// QueryIntParam reads an integer query string parameter. Absent and empty
// values fall back to defaultValue; anything else must parse.
func QueryIntParam(event events.APIGatewayV2HTTPRequest, name string, defaultValue int, message string) (int, error) {
	raw, ok := event.QueryStringParameters[name]
	if !ok || raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, exceptions.InvalidInput(message)
	}
	return value, nil
}
