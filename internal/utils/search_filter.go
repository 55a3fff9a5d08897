package utils

import (
	"strings"

	"agency/internal/models"
)

// FilterClients keeps the clients where any searchable field contains term,
// ignoring case. Input order is preserved and a blank term returns clients
// as given.
func FilterClients(clients []models.Client, term string) []models.Client {
	if strings.TrimSpace(term) == "" {
		return clients
	}

	needle := strings.ToLower(term)
	matches := make([]models.Client, 0, len(clients))
	for _, client := range clients {
		if clientMatches(client, needle) {
			matches = append(matches, client)
		}
	}
	return matches
}

func clientMatches(client models.Client, needle string) bool {
	for _, field := range searchableFields(client) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func searchableFields(client models.Client) []string {
	return []string{
		client.Name,
		client.Email,
		client.TaxID,
		client.Phone,
		client.City,
		client.State,
		string(client.Carrier),
	}
}
