package domain

// MaxBarFields caps how many mapped fields may be rendered on an event bar.
const MaxBarFields = 10

// WorkItemKind distinguishes JSM request types from plain Jira issue types.
type WorkItemKind string

const (
	WorkItemRequestType WorkItemKind = "requestType"
	WorkItemIssueType   WorkItemKind = "issueType"
)

// WorkItemType pairs a request/issue type name with the project it belongs to.
type WorkItemType struct {
	Name       string       `json:"name"`
	ProjectKey string       `json:"projectKey"`
	Label      string       `json:"label,omitempty"`
	Kind       WorkItemKind `json:"itemType"`
}

// AdditionalField configures one extra Jira field to resolve onto events.
type AdditionalField struct {
	ID          string `json:"id"`          // Local identifier, stable across saves
	Label       string `json:"label"`       // Display label
	JiraFieldID string `json:"jiraFieldId"` // External field id (e.g. "customfield_10200")
}

// FieldMapping associates logical event roles with external Jira field ids.
type FieldMapping struct {
	StartField       string            `json:"timeOfVisit"`
	EndField         string            `json:"endTime"`
	Site             string            `json:"site"`
	VisitType        string            `json:"typeOfVisit"`
	VisitorName      string            `json:"visitorName"`
	AdditionalFields []AdditionalField `json:"additionalFields"`
}

// BarFields lists which mapped fields are rendered on event bars per view.
type BarFields struct {
	Monthly []string `json:"monthly"`
	Weekly  []string `json:"weekly"`
}

// Settings is the admin-configured application state, stored as one opaque
// blob and replaced wholesale on save (no partial merge semantics).
type Settings struct {
	// Legacy single-value selectors, kept for old blobs.
	ProjectKey  string `json:"projectKey,omitempty"`
	RequestType string `json:"requestType,omitempty"`

	Projects      []string       `json:"projects"`
	RequestTypes  []string       `json:"requestTypes,omitempty"`
	WorkItemTypes []WorkItemType `json:"requestTypesWithProjects"`

	Fields    FieldMapping `json:"customFields"`
	BarFields BarFields    `json:"calendarBarFields"`
}

// DefaultSettings returns the documented fallback configuration used when no
// settings blob exists or loading fails. Rendering must never block on
// configuration problems.
func DefaultSettings() Settings {
	return Settings{
		RequestType:  "Visit",
		RequestTypes: []string{"Visit"},
		Fields: FieldMapping{
			StartField:       "customfield_10061",
			EndField:         "customfield_10179",
			Site:             "customfield_10065",
			VisitType:        "customfield_10066",
			VisitorName:      "customfield_10067",
			AdditionalFields: nil,
		},
		BarFields: BarFields{
			Monthly: []string{"site", "typeOfVisit"},
			Weekly:  []string{"site", "typeOfVisit"},
		},
	}
}

// EffectiveWorkItems resolves the work item type selection, applying the
// legacy fallback chain: explicit project-scoped types, then the flat
// requestTypes list combined with the legacy project key.
func (s Settings) EffectiveWorkItems() []WorkItemType {
	if len(s.WorkItemTypes) > 0 {
		return s.WorkItemTypes
	}

	types := s.RequestTypes
	if len(types) == 0 && s.RequestType != "" {
		types = []string{s.RequestType}
	}

	projectKey := s.ProjectKey
	if projectKey == "" && len(s.Projects) > 0 {
		projectKey = s.Projects[0]
	}
	if projectKey == "" || len(types) == 0 {
		return nil
	}

	items := make([]WorkItemType, 0, len(types))
	for _, name := range types {
		items = append(items, WorkItemType{
			Name:       name,
			ProjectKey: projectKey,
			Kind:       WorkItemRequestType,
		})
	}
	return items
}

// Normalize clamps over-long bar field lists and drops additional fields
// without an external id, so a malformed blob degrades instead of failing.
func (s *Settings) Normalize() {
	if len(s.BarFields.Monthly) > MaxBarFields {
		s.BarFields.Monthly = s.BarFields.Monthly[:MaxBarFields]
	}
	if len(s.BarFields.Weekly) > MaxBarFields {
		s.BarFields.Weekly = s.BarFields.Weekly[:MaxBarFields]
	}

	kept := s.Fields.AdditionalFields[:0]
	for _, f := range s.Fields.AdditionalFields {
		if f.JiraFieldID != "" {
			kept = append(kept, f)
		}
	}
	s.Fields.AdditionalFields = kept
}

// FieldList returns the Jira field ids to request for a full event fetch:
// the built-in fields plus every mapped and additional field that is set.
func (s Settings) FieldList() []string {
	fields := []string{"summary", "description", "status", "created", "assignee", "issuetype"}
	for _, id := range []string{s.Fields.StartField, s.Fields.EndField, s.Fields.Site, s.Fields.VisitType, s.Fields.VisitorName} {
		if id != "" {
			fields = append(fields, id)
		}
	}
	for _, f := range s.Fields.AdditionalFields {
		fields = append(fields, f.JiraFieldID)
	}
	return fields
}
