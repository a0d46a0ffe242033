package dto

// GatewayCallback is the payload the payment provider posts back.
type GatewayCallback struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Detail    string `json:"detail"`
}

const (
	// GatewayStatusSuccess marks a settled payment in callbacks.
	GatewayStatusSuccess = "SUCCESS"
	// GatewayStatusFailed marks a rejected payment in callbacks.
	GatewayStatusFailed = "FAILED"
)
