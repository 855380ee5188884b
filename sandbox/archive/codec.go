package archive

import (
	"encoding/json"
	"fmt"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

func encodeResult(result *sandbox.RunResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("run result is required")
	}
	return json.Marshal(result)
}

func decodeResult(payload []byte) (*sandbox.RunResult, error) {
	var result sandbox.RunResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
