package arena

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFile is the role-assignment record written into each round
// directory at dispatch time.
const ManifestFile = "manifest.json"

// SimulationMeta records, for one simulation, which participant occupied
// which role and where the result artifact lives. It is written before
// dispatch and re-read during parsing rather than recomputed, because role
// assignment can depend on dispatch-time state.
type SimulationMeta struct {
	Idx      int               `json:"idx"`
	Roles    map[string]string `json:"roles"`
	Artifact string            `json:"artifact"`
}

// WriteManifest persists the simulation metadata for a round.
func WriteManifest(roundDir string, sims []SimulationMeta) error {
	data, err := json.MarshalIndent(sims, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(roundDir, ManifestFile), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the simulation metadata recorded at dispatch time.
func ReadManifest(roundDir string) ([]SimulationMeta, error) {
	data, err := os.ReadFile(filepath.Join(roundDir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var sims []SimulationMeta
	if err := json.Unmarshal(data, &sims); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return sims, nil
}
