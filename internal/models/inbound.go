package models

// InboundSMS is the webhook payload relayed by the SMS gateway when an end
// user texts the service's dedicated number. Field names follow the upstream
// relay format; only the origination number and body drive the pipeline.
type InboundSMS struct {
	OriginationNumber          string `json:"originationNumber" binding:"required"`
	DestinationNumber          string `json:"destinationNumber"`
	MessageKeyword             string `json:"messageKeyword"`
	MessageBody                string `json:"messageBody" binding:"required"`
	InboundMessageID           string `json:"inboundMessageId"`
	PreviousPublishedMessageID string `json:"previousPublishedMessageId,omitempty"`
}
