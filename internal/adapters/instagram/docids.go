package instagram

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Known-good document IDs shipped as a fallback when no config file is
// present. These rotate as Instagram changes its backend; deployments
// should prefer the yaml file so the list can be updated without a build.
var defaultDocIDs = []string{
	"10015901848480474",
	"8845758582119845",
	"7616867078352743",
}

// DocIDConfig holds the ordered list of GraphQL document IDs. Order is
// priority order: the first ID that yields a caption wins.
type DocIDConfig struct {
	mu          sync.RWMutex
	ids         []string
	filePath    string
	lastModTime time.Time
}

type rawDocIDConfig struct {
	GraphQL struct {
		DocIDs []string `yaml:"doc_ids"`
	} `yaml:"graphql"`
}

// LoadDocIDs loads the document ID list from a YAML file and starts a
// background goroutine that hot-reloads it on modification.
func LoadDocIDs(filePath string) (*DocIDConfig, error) {
	config := &DocIDConfig{filePath: filePath}
	if err := config.reload(); err != nil {
		return nil, err
	}

	go config.watch()

	return config, nil
}

// StaticDocIDs builds a fixed, non-reloading list. With no arguments the
// built-in defaults are used.
func StaticDocIDs(ids ...string) *DocIDConfig {
	if len(ids) == 0 {
		ids = defaultDocIDs
	}
	return &DocIDConfig{ids: append([]string(nil), ids...)}
}

// DocIDs returns a copy of the current ordered list (thread-safe).
func (c *DocIDConfig) DocIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.ids...)
}

// Count returns how many document IDs are configured.
func (c *DocIDConfig) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

// reload reads the configuration from the file.
func (c *DocIDConfig) reload() error {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return err
	}

	var raw rawDocIDConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.GraphQL.DocIDs) == 0 {
		return fmt.Errorf("doc id config %s lists no ids", c.filePath)
	}

	c.mu.Lock()
	c.ids = raw.GraphQL.DocIDs
	c.mu.Unlock()

	return nil
}

// watch monitors the configuration file for changes and reloads it.
func (c *DocIDConfig) watch() {
	ticker := time.NewTicker(10 * time.Second)
	for range ticker.C {
		info, err := os.Stat(c.filePath)
		if err != nil {
			continue
		}
		if info.ModTime().After(c.lastModTime) {
			_ = c.reload()
			c.lastModTime = info.ModTime()
		}
	}
}
