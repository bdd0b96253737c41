package handler

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

type LambdaFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Lambda adapts h to API Gateway proxy events. GET lists tasks, OPTIONS
// answers the CORS preflight, everything else goes to the agent.
func Lambda(h *Handler) LambdaFunc {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		var r Reply
		switch req.HTTPMethod {
		case http.MethodOptions:
			r = Reply{StatusCode: http.StatusNoContent}
		case http.MethodGet:
			r = h.ListTasks(ctx)
		default:
			body := req.Body
			if req.IsBase64Encoded {
				decoded, err := base64.StdEncoding.DecodeString(body)
				if err != nil {
					r = reply(http.StatusBadRequest, msgInvalidBody)
					break
				}
				body = string(decoded)
			}
			r = h.Handle(ctx, body)
		}

		return events.APIGatewayProxyResponse{
			StatusCode: r.StatusCode,
			Headers:    Headers(),
			Body:       r.Body,
		}, nil
	}
}
