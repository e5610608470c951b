package client

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaBaseURL = "https://polyglot-leads.local/schemas/"

//go:embed schemas/*.json
var schemaFS embed.FS

type schemaSet struct {
	lead      *jsonschema.Schema
	leadList  *jsonschema.Schema
	reply     *jsonschema.Schema
	replyList *jsonschema.Schema
}

func compileSchemas() (*schemaSet, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		raw, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, err
		}
		if err := c.AddResource(schemaBaseURL+e.Name(), bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("schema %s load failed: %w", e.Name(), err)
		}
	}

	set := &schemaSet{}
	for name, dst := range map[string]**jsonschema.Schema{
		"lead.json":       &set.lead,
		"lead_list.json":  &set.leadList,
		"reply.json":      &set.reply,
		"reply_list.json": &set.replyList,
	} {
		compiled, err := c.Compile(schemaBaseURL + name)
		if err != nil {
			return nil, fmt.Errorf("schema %s compile failed: %w", name, err)
		}
		*dst = compiled
	}
	return set, nil
}
