package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// localHTTPPublisher implements EventPublisher by sending HTTP POST requests
// to a local endpoint, simulating Pub/Sub push behavior for development
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// PubSubPushMessage mimics the envelope Google Pub/Sub uses when pushing
// to HTTP endpoints, so local consumers parse the same shape.
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// PublishOrderEvent posts the event to the local endpoint in Pub/Sub push format.
func (p *localHTTPPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	var push PubSubPushMessage
	push.Message.Data = base64.StdEncoding.EncodeToString(data)
	push.Message.Attributes = map[string]string{
		"order_id": event.OrderID,
		"status":   event.Status,
	}
	push.Message.MessageID = uuid.New().String()
	push.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)
	push.Subscription = "local"

	body, err := json.Marshal(push)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to post order event")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("local endpoint returned status %d", resp.StatusCode)
	}

	p.logger.Debug("[LocalPubSub] Order event delivered",
		slog.String("order_id", event.OrderID),
		slog.String("endpoint", p.endpoint),
	)

	return nil
}

// Close releases the publisher's resources. The local publisher holds none.
func (p *localHTTPPublisher) Close() error {
	return nil
}
