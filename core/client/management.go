package client

// ProvisioningKeyRequest creates or updates a management key. Scopes is a
// comma-separated list.
type ProvisioningKeyRequest struct {
	Passthrough

	Name   string `json:"name,omitempty"`
	Scopes string `json:"scopes,omitempty"`
	Status string `json:"status,omitempty"`
}

// ProvisioningKey describes a gateway API key.
type ProvisioningKey struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Prefix      string `json:"prefix,omitempty"`
	Scopes      string `json:"scopes,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
	LastUsedAt  string `json:"last_used_at,omitempty"`
	TeamID      string `json:"team_id,omitempty"`
	SoftBlocked bool   `json:"soft_blocked,omitempty"`
	// Key holds the secret and is only returned on creation.
	Key string `json:"key,omitempty"`
}

// ProvisioningKeyList is the result of ListKeys.
type ProvisioningKeyList struct {
	RawResponse

	OK     bool              `json:"ok"`
	Keys   []ProvisioningKey `json:"keys"`
	Total  int               `json:"total,omitempty"`
	Limit  int               `json:"limit,omitempty"`
	Offset int               `json:"offset,omitempty"`
}

// ProvisioningKeyResult wraps a single key.
type ProvisioningKeyResult struct {
	RawResponse

	OK  bool            `json:"ok"`
	Key ProvisioningKey `json:"key"`
}

// Ack is the body of update and delete calls.
type Ack struct {
	RawResponse

	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
