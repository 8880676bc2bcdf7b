package types

// ErrorEnvelope is the wire shape for any failed action.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
