package models

// Account identifies one connected integration. Owned by the gateway:
// created on OAuth connect, deleted on disconnect, read-only here.
type Account struct {
	AccountID   string   `json:"account_id"`
	AccountName string   `json:"account_name,omitempty"`
	Platform    Platform `json:"platform"`
	Email       string   `json:"email,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// DisplayName falls back to the account ID when no display name is set.
func (a Account) DisplayName() string {
	if a.AccountName != "" {
		return a.AccountName
	}
	return a.AccountID
}

// MetricItem pairs an account with its raw metrics snapshot.
type MetricItem struct {
	AccountName string   `json:"accountName"`
	Platform    Platform `json:"platform"`
	Data        Payload  `json:"data"`
}
