package utils

import (
	"testing"

	"agency/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleClients() []models.Client {
	return []models.Client{
		{Name: "Ana Perez", Email: "ana@example.com", TaxID: "123-45-6789", City: "Miami", State: "Florida", Carrier: models.CarrierOscar},
		{Name: "Luis Gomez", Email: "lg@mail.com", Phone: "(305) 555-1234", City: "Hialeah", State: "Florida", Carrier: models.CarrierFloridaBlue},
		{Name: "Maria Diaz", Email: "maria@example.com", City: "Orlando", State: "Florida", Carrier: models.CarrierAmbetter},
	}
}

func TestFilterClients_BlankTermIsIdentity(t *testing.T) {
	clients := sampleClients()
	assert.Equal(t, clients, FilterClients(clients, ""))
	assert.Equal(t, clients, FilterClients(clients, "   "))
	assert.Nil(t, FilterClients(nil, ""))
}

func TestFilterClients_Fields(t *testing.T) {
	tests := []struct {
		name  string
		term  string
		names []string
	}{
		{name: "name is case-insensitive", term: "ANA", names: []string{"Ana Perez"}},
		{name: "email", term: "mail.com", names: []string{"Luis Gomez"}},
		{name: "formatted tax id", term: "45-67", names: []string{"Ana Perez"}},
		{name: "phone", term: "555", names: []string{"Luis Gomez"}},
		{name: "city", term: "orlando", names: []string{"Maria Diaz"}},
		{name: "state keeps input order", term: "florida", names: []string{"Ana Perez", "Luis Gomez", "Maria Diaz"}},
		{name: "carrier", term: "oscar", names: []string{"Ana Perez"}},
		{name: "no match", term: "zzz", names: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterClients(sampleClients(), tt.term)
			names := make([]string, 0, len(got))
			for _, client := range got {
				names = append(names, client.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestFilterClients_IgnoresOtherFields(t *testing.T) {
	clients := []models.Client{{Name: "Ana", Notes: "prefers phone calls", Employer: "Acme"}}
	assert.Empty(t, FilterClients(clients, "acme"))
	assert.Empty(t, FilterClients(clients, "prefers"))
	require.Len(t, FilterClients(clients, "an"), 1)
}
