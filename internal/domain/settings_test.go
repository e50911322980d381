package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "customfield_10061", s.Fields.StartField)
	assert.Equal(t, "customfield_10179", s.Fields.EndField)
	assert.Equal(t, []string{"Visit"}, s.RequestTypes)
	assert.Equal(t, []string{"site", "typeOfVisit"}, s.BarFields.Monthly)
}

func TestEffectiveWorkItems_ExplicitWins(t *testing.T) {
	s := Settings{
		ProjectKey:  "OLD",
		RequestType: "Legacy",
		WorkItemTypes: []WorkItemType{
			{Name: "Visit", ProjectKey: "VIS", Kind: WorkItemRequestType},
		},
	}

	items := s.EffectiveWorkItems()

	require.Len(t, items, 1)
	assert.Equal(t, "VIS", items[0].ProjectKey)
}

func TestEffectiveWorkItems_LegacyFallback(t *testing.T) {
	s := Settings{ProjectKey: "VIS", RequestType: "Visit"}

	items := s.EffectiveWorkItems()

	require.Len(t, items, 1)
	assert.Equal(t, WorkItemType{Name: "Visit", ProjectKey: "VIS", Kind: WorkItemRequestType}, items[0])
}

func TestEffectiveWorkItems_ProjectsListFallback(t *testing.T) {
	s := Settings{Projects: []string{"VIS", "OPS"}, RequestTypes: []string{"Visit", "Audit"}}

	items := s.EffectiveWorkItems()

	require.Len(t, items, 2)
	assert.Equal(t, "VIS", items[0].ProjectKey)
	assert.Equal(t, "Audit", items[1].Name)
}

func TestEffectiveWorkItems_NothingConfigured(t *testing.T) {
	assert.Empty(t, Settings{}.EffectiveWorkItems())
	// Types without any project cannot be scoped.
	assert.Empty(t, Settings{RequestTypes: []string{"Visit"}}.EffectiveWorkItems())
}

func TestNormalize_ClampsAndFilters(t *testing.T) {
	s := Settings{
		BarFields: BarFields{
			Monthly: make([]string, MaxBarFields+4),
			Weekly:  []string{"site"},
		},
		Fields: FieldMapping{
			AdditionalFields: []AdditionalField{
				{ID: "a", Label: "A", JiraFieldID: "customfield_1"},
				{ID: "b", Label: "B"}, // no external id
			},
		},
	}

	s.Normalize()

	assert.Len(t, s.BarFields.Monthly, MaxBarFields)
	assert.Len(t, s.BarFields.Weekly, 1)
	require.Len(t, s.Fields.AdditionalFields, 1)
	assert.Equal(t, "a", s.Fields.AdditionalFields[0].ID)
}

func TestFieldList(t *testing.T) {
	s := DefaultSettings()
	s.Fields.AdditionalFields = []AdditionalField{
		{ID: "host", Label: "Host", JiraFieldID: "customfield_10200"},
	}

	fields := s.FieldList()

	assert.Contains(t, fields, "summary")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "customfield_10061")
	assert.Contains(t, fields, "customfield_10200")
	assert.Equal(t, "summary", fields[0])
}

func TestSettings_JSONRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.WorkItemTypes = []WorkItemType{
		{Name: "Visit", ProjectKey: "VIS", Kind: WorkItemRequestType},
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	// Wire names stay compatible with previously saved blobs.
	assert.Contains(t, string(data), `"requestTypesWithProjects"`)
	assert.Contains(t, string(data), `"timeOfVisit"`)
	assert.Contains(t, string(data), `"calendarBarFields"`)

	var back Settings
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}
