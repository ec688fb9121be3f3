package orchestrator

import (
	"fmt"
	"os"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// Config is the client's environment-driven configuration. There are no
// defaults for the signing secret or receipts directory — a deployment
// that forgets to set either fails at startup, not on the first run.
type Config struct {
	// Secret is the HMAC signing secret. Required.
	Secret string
	// ReceiptsDir is where signed receipts are persisted. Required.
	ReceiptsDir string
	// AllowInsecureSecret waives the minimum secret length — dev/test only.
	AllowInsecureSecret bool
}

const (
	secretEnvVar              = "ENACT_SECRET"
	receiptsDirEnvVar          = "ENACT_RECEIPTS_DIR"
	allowInsecureSecretEnvVar  = "ENACT_ALLOW_INSECURE_SECRET"
)

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	secret := os.Getenv(secretEnvVar)
	if secret == "" {
		return Config{}, &contracts.ConfigurationError{Detail: fmt.Sprintf("%s is required", secretEnvVar)}
	}

	dir := os.Getenv(receiptsDirEnvVar)
	if dir == "" {
		return Config{}, &contracts.ConfigurationError{Detail: fmt.Sprintf("%s is required", receiptsDirEnvVar)}
	}

	allowInsecure := os.Getenv(allowInsecureSecretEnvVar) == "true"

	return Config{
		Secret:              secret,
		ReceiptsDir:         dir,
		AllowInsecureSecret: allowInsecure,
	}, nil
}
