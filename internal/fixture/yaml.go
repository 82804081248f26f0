package fixture

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/sample.yaml
var sampleYAML []byte

// Decode reads a YAML fixture. Unknown keys are rejected so typos surface at startup.
func Decode(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode fixture: %w", err)
	}
	return snap, nil
}

// LoadEmbedded returns the fixture compiled into the binary.
func LoadEmbedded() (Snapshot, error) {
	return Decode(bytes.NewReader(sampleYAML))
}

// LoadFile reads a fixture from disk.
func LoadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
