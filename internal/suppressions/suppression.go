// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package suppressions

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/paths"

	"gopkg.in/yaml.v3"
)

// DefaultExpiry is how long a new rule stays active unless told otherwise
const DefaultExpiry = 7 * 24 * time.Hour

// SuppressionRule represents a single suppression rule
type SuppressionRule struct {
	ID         string            `yaml:"id"`
	Hash       string            `yaml:"hash"`
	Reason     string            `yaml:"reason"`
	Enabled    bool              `yaml:"enabled"`
	CreatedBy  string            `yaml:"created_by,omitempty"`
	CreatedAt  time.Time         `yaml:"created_at"`
	LastSeenAt *time.Time        `yaml:"last_seen_at,omitempty"`
	ExpiresAt  *time.Time        `yaml:"expires_at,omitempty"`
	Metadata   map[string]string `yaml:"metadata,omitempty"`
}

// SuppressionConfig represents the suppression configuration file
type SuppressionConfig struct {
	Version string            `yaml:"version"`
	Rules   []SuppressionRule `yaml:"rules"`
}

// SuppressionManager handles finding suppressions. It is not safe for
// concurrent use; apply it after scan results are collected.
type SuppressionManager struct {
	configPath string
	config     *SuppressionConfig
	enabled    bool
	loadErr    error
	now        func() time.Time
}

// NewSuppressionManager creates a new suppression manager. An empty path
// selects the suppressions file in the user config directory.
func NewSuppressionManager(configPath string) *SuppressionManager {
	if configPath == "" {
		configPath = paths.GetSuppressionsFile()
	}

	manager := &SuppressionManager{
		configPath: configPath,
		enabled:    true,
		now:        time.Now,
	}

	manager.loadConfig()
	return manager
}

func emptyConfig() *SuppressionConfig {
	return &SuppressionConfig{
		Version: "1.0",
		Rules:   []SuppressionRule{},
	}
}

// loadConfig loads the suppression configuration. A missing file is an
// empty rule set; a malformed one is also empty but remembered in loadErr.
func (sm *SuppressionManager) loadConfig() {
	sm.config = emptyConfig()

	data, err := os.ReadFile(filepath.Clean(sm.configPath))
	if err != nil {
		if !os.IsNotExist(err) {
			sm.loadErr = fmt.Errorf("failed to read suppression file: %w", err)
		}
		return
	}

	var config SuppressionConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		sm.loadErr = fmt.Errorf("failed to parse suppression file %s: %w", sm.configPath, err)
		return
	}
	if config.Rules == nil {
		config.Rules = []SuppressionRule{}
	}
	sm.config = &config
}

// LoadError returns the error hit while reading the rule file, if any
func (sm *SuppressionManager) LoadError() error {
	return sm.loadErr
}

// generateFindingHash creates a stable identifier for a finding. Sensitive
// parts are hashed before they enter the composite.
func (sm *SuppressionManager) generateFindingHash(match detector.Match) string {
	components := []string{
		match.Type,
		sm.hashSensitiveData(strings.TrimSpace(match.Context.FullLine)),
		filepath.Base(match.Filename), // basename so moved batches keep their rules
		fmt.Sprintf("%d", match.LineNumber),
		sm.hashSensitiveData(match.Context.BeforeText + match.Context.AfterText),
		sm.hashSensitiveData(matchText(match)),
	}

	hash := sha256.Sum256([]byte(strings.Join(components, "|")))
	return fmt.Sprintf("%x", hash)
}

func matchText(match detector.Match) string {
	if match.Text != "" {
		return match.Text
	}
	return match.SecureText.String()
}

// hashSensitiveData creates a short hash of sensitive data
func (sm *SuppressionManager) hashSensitiveData(data string) string {
	if data == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)[:16]
}

// HashFinding returns the identifier a rule must carry to suppress match
func (sm *SuppressionManager) HashFinding(match detector.Match) string {
	return sm.generateFindingHash(match)
}

// IsSuppressed checks if an enabled, unexpired rule covers the finding
func (sm *SuppressionManager) IsSuppressed(match detector.Match) (bool, *SuppressionRule) {
	if !sm.enabled || sm.config == nil {
		return false, nil
	}

	findingHash := sm.generateFindingHash(match)
	now := sm.now()

	for i := range sm.config.Rules {
		rule := sm.config.Rules[i]
		if rule.Hash != findingHash || !rule.Enabled {
			continue
		}
		if rule.ExpiresAt != nil && now.After(*rule.ExpiresAt) {
			continue
		}
		return true, &rule
	}

	return false, nil
}

// GetExpiredRule returns the enabled rule for match that has expired, if any
func (sm *SuppressionManager) GetExpiredRule(match detector.Match) *SuppressionRule {
	if !sm.enabled || sm.config == nil {
		return nil
	}

	findingHash := sm.generateFindingHash(match)
	now := sm.now()
	for i := range sm.config.Rules {
		rule := sm.config.Rules[i]
		if rule.Hash == findingHash && rule.Enabled && rule.ExpiresAt != nil && now.After(*rule.ExpiresAt) {
			return &rule
		}
	}
	return nil
}

// Apply splits matches into those still reported and those suppressed
func (sm *SuppressionManager) Apply(matches []detector.Match) ([]detector.Match, []detector.SuppressedMatch) {
	kept := make([]detector.Match, 0, len(matches))
	var suppressed []detector.SuppressedMatch

	for _, match := range matches {
		if ok, rule := sm.IsSuppressed(match); ok {
			suppressed = append(suppressed, detector.SuppressedMatch{
				Match:        match,
				SuppressedBy: rule.ID,
				RuleReason:   rule.Reason,
				ExpiresAt:    rule.ExpiresAt,
			})
			continue
		}
		if rule := sm.GetExpiredRule(match); rule != nil {
			if match.Metadata == nil {
				match.Metadata = make(map[string]any)
			}
			match.Metadata["expired_suppression"] = rule.ID
		}
		kept = append(kept, match)
	}

	return kept, suppressed
}

// nextID returns the next free SUP-%08d identifier
func (sm *SuppressionManager) nextID(offset int) string {
	maxID := 0
	for _, existingRule := range sm.config.Rules {
		var num int
		if _, err := fmt.Sscanf(existingRule.ID, "SUP-%08d", &num); err == nil && num > maxID {
			maxID = num
		}
	}
	return fmt.Sprintf("SUP-%08d", maxID+offset+1)
}

func (sm *SuppressionManager) newRule(match detector.Match, id, reason string, enabled bool, expiresAt *time.Time) SuppressionRule {
	now := sm.now()
	if expiresAt == nil {
		defaultExpiry := now.Add(DefaultExpiry)
		expiresAt = &defaultExpiry
	}

	return SuppressionRule{
		ID:         id,
		Hash:       sm.generateFindingHash(match),
		Reason:     reason,
		Enabled:    enabled,
		CreatedAt:  now,
		LastSeenAt: &now,
		ExpiresAt:  expiresAt,
		Metadata: map[string]string{
			"finding_type":    match.Type,
			"filename":        filepath.Base(match.Filename),
			"line_number":     fmt.Sprintf("%d", match.LineNumber),
			"confidence":      fmt.Sprintf("%.0f", match.Confidence),
			"match_text_hash": sm.hashSensitiveData(matchText(match)),
		},
	}
}

// AddSuppression adds an enabled rule for match and saves the file
func (sm *SuppressionManager) AddSuppression(match detector.Match, reason, createdBy string, expiresAt *time.Time) error {
	findingHash := sm.generateFindingHash(match)
	for _, rule := range sm.config.Rules {
		if rule.Hash == findingHash {
			return fmt.Errorf("suppression rule already exists for this finding (%s)", rule.ID)
		}
	}

	rule := sm.newRule(match, sm.nextID(0), reason, true, expiresAt)
	rule.CreatedBy = createdBy
	sm.config.Rules = append(sm.config.Rules, rule)
	return sm.saveConfig()
}

// GenerateSuppressionRules adds a rule per new finding with the given
// enabled state and refreshes last_seen_at on existing ones. It returns the
// number of rules added.
func (sm *SuppressionManager) GenerateSuppressionRules(matches []detector.Match, reason string, enabled bool) (int, error) {
	existing := make(map[string]int, len(sm.config.Rules))
	for i := range sm.config.Rules {
		existing[sm.config.Rules[i].Hash] = i
	}

	now := sm.now()
	added, updated := 0, 0
	var newRules []SuppressionRule
	for _, match := range matches {
		findingHash := sm.generateFindingHash(match)
		if i, ok := existing[findingHash]; ok {
			if i >= 0 {
				sm.config.Rules[i].LastSeenAt = &now
				updated++
			}
			continue
		}

		newRules = append(newRules, sm.newRule(match, sm.nextID(added), reason, enabled, nil))
		existing[findingHash] = -1 // duplicate findings in one batch
		added++
	}
	sm.config.Rules = append(sm.config.Rules, newRules...)

	if added > 0 || updated > 0 {
		return added, sm.saveConfig()
	}
	return 0, nil
}

// RemoveSuppression removes a suppression rule by ID
func (sm *SuppressionManager) RemoveSuppression(id string) error {
	for i, rule := range sm.config.Rules {
		if rule.ID == id {
			sm.config.Rules = append(sm.config.Rules[:i], sm.config.Rules[i+1:]...)
			return sm.saveConfig()
		}
	}
	return fmt.Errorf("suppression rule with ID %s not found", id)
}

// SetRuleEnabled enables or disables a rule by ID
func (sm *SuppressionManager) SetRuleEnabled(id string, enabled bool) error {
	for i := range sm.config.Rules {
		if sm.config.Rules[i].ID == id {
			sm.config.Rules[i].Enabled = enabled
			return sm.saveConfig()
		}
	}
	return fmt.Errorf("suppression rule with ID %s not found", id)
}

// ListSuppressions returns all suppression rules
func (sm *SuppressionManager) ListSuppressions() []SuppressionRule {
	return sm.config.Rules
}

// CleanupExpired removes expired suppression rules and saves the file when
// any were removed
func (sm *SuppressionManager) CleanupExpired() (int, error) {
	now := sm.now()
	active := make([]SuppressionRule, 0, len(sm.config.Rules))
	for _, rule := range sm.config.Rules {
		if rule.ExpiresAt == nil || now.Before(*rule.ExpiresAt) {
			active = append(active, rule)
		}
	}

	removed := len(sm.config.Rules) - len(active)
	sm.config.Rules = active
	if removed > 0 {
		return removed, sm.saveConfig()
	}
	return 0, nil
}

// saveConfig writes the rules with owner-only permissions
func (sm *SuppressionManager) saveConfig() error {
	data, err := yaml.Marshal(sm.config)
	if err != nil {
		return fmt.Errorf("failed to marshal suppression config: %w", err)
	}

	if dir := filepath.Dir(sm.configPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(sm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write suppression config: %w", err)
	}
	return nil
}

// SetEnabled enables or disables the suppression manager
func (sm *SuppressionManager) SetEnabled(enabled bool) {
	sm.enabled = enabled
}

// IsEnabled returns whether the suppression manager is enabled
func (sm *SuppressionManager) IsEnabled() bool {
	return sm.enabled
}

// GetConfigPath returns the path to the suppression config file
func (sm *SuppressionManager) GetConfigPath() string {
	return sm.configPath
}
