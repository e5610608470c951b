package kommo

type embeddedContacts struct {
	Embedded struct {
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}

type embeddedLeads struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
	} `json:"_embedded"`
}

type tag struct {
	Name string `json:"name"`
}

type contactRef struct {
	ID int `json:"id"`
}

type leadPayload struct {
	Name     string `json:"name"`
	StatusID int    `json:"status_id,omitempty"`
	Embedded struct {
		Tags     []tag        `json:"tags"`
		Contacts []contactRef `json:"contacts"`
	} `json:"_embedded"`
}

type fieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code"`
}

type customField struct {
	FieldCode string       `json:"field_code"`
	Values    []fieldValue `json:"values"`
}

type contactPayload struct {
	Name               string        `json:"name"`
	CustomFieldsValues []customField `json:"custom_fields_values"`
}
