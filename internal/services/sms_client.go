package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SMSClient sends outbound SMS through the gateway's messages API.
// Fire-and-forget: acceptance by the gateway is the only confirmation.
type SMSClient struct {
	baseURL           string
	originationNumber string
	client            *http.Client
}

// NewSMSClient creates a new SMSClient.
func NewSMSClient(baseURL, originationNumber string) *SMSClient {
	return &SMSClient{
		baseURL:           baseURL,
		originationNumber: originationNumber,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type outboundSMS struct {
	OriginationNumber string `json:"origination_number"`
	DestinationNumber string `json:"destination_number"`
	Message           string `json:"message"`
}

// Send delivers one message to one phone number.
func (c *SMSClient) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(outboundSMS{
		OriginationNumber: c.originationNumber,
		DestinationNumber: phone,
		Message:           message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	return nil
}
