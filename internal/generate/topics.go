package generate

import (
	"context"
	"fmt"
	"strings"
)

// PossibleTopics is the seed catalogue of tools and subjects worth covering.
// Uncovered entries are offered to users as generation candidates.
var PossibleTopics = []string{
	"Ansible", "Terraform", "Docker", "Kubernetes", "Prometheus", "Grafana",
	"OpenStack", "Wireshark", "NetBox", "Suricata", "Apache", "Nginx",
	"MySQL", "PostgreSQL", "FreeRADIUS", "Ventoy", "Immich", "Speedtest-cli",
	"PingPlotter", "OpenNMS", "Scapy", "Bro IDS", "RustDesk", "WordPress",
	"Certbot", "Passbolt", "NAPALM", "Observium", "Cloud Security",
	"VPN Setup", "Multi-Factor Authentication", "Blockchain", "AI in Cybersecurity",
}

// PostContentLister exposes enough of a user's posts to scan for topic
// coverage.
type PostContentLister interface {
	ListTitlesAndContent(ctx context.Context, userID int64) ([][2]string, error)
}

// UncoveredTopics returns the catalogue entries not yet mentioned in any of
// the user's post titles or bodies.
func UncoveredTopics(ctx context.Context, posts PostContentLister, userID int64) ([]string, error) {
	rows, err := posts.ListTitlesAndContent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts for user %d: %w", userID, err)
	}

	uncovered := make([]string, 0, len(PossibleTopics))

	for _, topic := range PossibleTopics {
		needle := strings.ToLower(topic)

		covered := false

		for _, row := range rows {
			if strings.Contains(strings.ToLower(row[0]), needle) || strings.Contains(strings.ToLower(row[1]), needle) {
				covered = true

				break
			}
		}

		if !covered {
			uncovered = append(uncovered, topic)
		}
	}

	return uncovered, nil
}
