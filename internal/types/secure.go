package types

// redactedPlaceholder replaces secret values in logs and serialized output.
const redactedPlaceholder = "***REDACTED***"

var redactedJSON = []byte(`"***REDACTED***"`)

// SecretString holds a sensitive value (vendor API key, database password)
// and refuses to print it. String() and MarshalJSON() return a redacted
// placeholder so fmt verbs, structured logs, and config dumps never leak the
// plaintext. Call Unmask() at the point of use.
type SecretString string

// String returns a redacted placeholder instead of the raw value.
func (s SecretString) String() string {
	return redactedPlaceholder
}

// MarshalJSON returns the redacted placeholder as a JSON string.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return redactedJSON, nil
}

// Unmask returns the raw plaintext. Limit calls to the places that genuinely
// need the secret, such as query parameters or connection strings.
func (s SecretString) Unmask() string {
	return string(s)
}
