// internal/model/batch.go
package model

const StatusSent = "Sent"

const failedPrefix = "Failed: "

// DeliveryResult is the outcome of one send attempt.
type DeliveryResult struct {
	Email  string `json:"email"`
	Status string `json:"status"` // "Sent" or "Failed: <reason>"
}

func SentResult(email string) DeliveryResult {
	return DeliveryResult{Email: email, Status: StatusSent}
}

func FailedResult(email string, err error) DeliveryResult {
	if email == "" {
		email = "Unknown"
	}
	return DeliveryResult{Email: email, Status: failedPrefix + err.Error()}
}

func (r DeliveryResult) Failed() bool {
	return r.Status != StatusSent
}

// DeliveryBatch holds one result per dataset row, in row order.
// It is produced once by a run and never mutated afterwards.
type DeliveryBatch struct {
	Results []DeliveryResult `json:"results"`
}

// Counts returns how many results were sent and how many failed.
func (b *DeliveryBatch) Counts() (sent, failed int) {
	for _, r := range b.Results {
		if r.Failed() {
			failed++
		} else {
			sent++
		}
	}
	return sent, failed
}
