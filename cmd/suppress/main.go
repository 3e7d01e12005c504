// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"ssn-finder/internal/suppressions"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ssn-finder-suppress", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		suppressionFile = fs.String("suppression-file", "", "Path to suppression configuration file (default: ssn-finder-suppressions.yaml in the config directory)")
		action          = fs.String("action", "", "Action to perform: list, remove, cleanup, enable, disable")
		id              = fs.String("id", "", "Suppression rule ID (for remove, enable and disable)")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *action == "" {
		fmt.Fprintln(stderr, "Error: --action is required")
		fmt.Fprintln(stderr, "Usage: ssn-finder-suppress --action <list|remove|cleanup|enable|disable> [options]")
		return 2
	}

	manager := suppressions.NewSuppressionManager(*suppressionFile)
	if err := manager.LoadError(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	switch *action {
	case "list":
		listSuppressions(stdout, manager, time.Now())
		return 0
	case "cleanup":
		return cleanupExpired(stdout, stderr, manager)
	case "remove", "enable", "disable":
		if *id == "" {
			fmt.Fprintf(stderr, "Error: --id is required for %s action\n", *action)
			return 2
		}
		return updateRule(stdout, stderr, manager, *action, *id)
	default:
		fmt.Fprintf(stderr, "Error: Unknown action '%s'\n", *action)
		fmt.Fprintln(stderr, "Valid actions: list, remove, cleanup, enable, disable")
		return 2
	}
}

func listSuppressions(out io.Writer, manager *suppressions.SuppressionManager, now time.Time) {
	rules := manager.ListSuppressions()
	if len(rules) == 0 {
		fmt.Fprintln(out, "No suppression rules found.")
		return
	}

	fmt.Fprintf(out, "Found %d suppression rules in %s:\n\n", len(rules), manager.GetConfigPath())
	for _, rule := range rules {
		state := "disabled"
		if rule.Enabled {
			state = "enabled"
		}
		if rule.ExpiresAt != nil && !now.Before(*rule.ExpiresAt) {
			state += ", expired"
		}
		fmt.Fprintf(out, "ID: %s (%s)\n", rule.ID, state)
		fmt.Fprintf(out, "Hash: %s\n", rule.Hash)
		fmt.Fprintf(out, "Reason: %s\n", rule.Reason)
		if rule.CreatedBy != "" {
			fmt.Fprintf(out, "Created By: %s\n", rule.CreatedBy)
		}
		fmt.Fprintf(out, "Created At: %s\n", rule.CreatedAt.Format("2006-01-02 15:04:05"))
		if rule.LastSeenAt != nil {
			fmt.Fprintf(out, "Last Seen At: %s\n", rule.LastSeenAt.Format("2006-01-02 15:04:05"))
		}
		if rule.ExpiresAt != nil {
			fmt.Fprintf(out, "Expires At: %s\n", rule.ExpiresAt.Format("2006-01-02 15:04:05"))
		}
		if len(rule.Metadata) > 0 {
			fmt.Fprintln(out, "Metadata:")
			keys := make([]string, 0, len(rule.Metadata))
			for k := range rule.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "  %s: %s\n", k, rule.Metadata[k])
			}
		}
		fmt.Fprintln(out, "---")
	}
}

func updateRule(stdout, stderr io.Writer, manager *suppressions.SuppressionManager, action, id string) int {
	var err error
	switch action {
	case "remove":
		err = manager.RemoveSuppression(id)
	case "enable":
		err = manager.SetRuleEnabled(id, true)
	case "disable":
		err = manager.SetRuleEnabled(id, false)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to %s suppression: %v\n", action, err)
		return 1
	}

	verb := map[string]string{"remove": "removed", "enable": "enabled", "disable": "disabled"}[action]
	fmt.Fprintf(stdout, "Successfully %s suppression rule: %s\n", verb, id)
	return 0
}

func cleanupExpired(stdout, stderr io.Writer, manager *suppressions.SuppressionManager) int {
	removed, err := manager.CleanupExpired()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to save suppression file: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Cleaned up %d expired suppression rules\n", removed)
	return 0
}
