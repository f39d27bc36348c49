package router

import (
	"context"
	"encoding/base64"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/event"
)

// HandleAPIGateway adapts an API Gateway proxy event to Route. Handler
// errors are returned to the Lambda runtime unchanged.
func (rt *Router) HandleAPIGateway(ctx context.Context, in events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := in.Body
	if in.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(in.Body)
		if err != nil {
			rt.log.Warn("undecodable base64 body", zap.String("path", in.Path), zap.Error(err))
		} else {
			body = string(decoded)
		}
	}

	resp, err := rt.Route(ctx, event.Request{
		HTTPMethod:            in.HTTPMethod,
		Path:                  in.Path,
		Body:                  body,
		QueryStringParameters: in.QueryStringParameters,
		PathParameters:        in.PathParameters,
	})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}
