package graphgen

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaName is the name of the structured output format sent to the model.
const SchemaName = "graph_structure"

// Schema is the JSON Schema of a generated graph.
var Schema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "label": {"type": "string"},
          "level": {"type": "integer"},
          "description": {"type": "string"},
          "relationships": {
            "type": "object",
            "properties": {
              "connections": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["connections"]
          },
          "generalKnowledge": {"type": "string"},
          "importance": {"type": "integer"},
          "children": {"type": "array", "items": {"type": "string"}}
        },
        "required": ["id", "label", "level", "description", "relationships", "generalKnowledge", "importance", "children"]
      }
    },
    "links": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "source": {"type": "string"},
          "target": {"type": "string"},
          "relationship": {"type": "string"}
        },
        "required": ["source", "target", "relationship"]
      }
    }
  },
  "required": ["nodes", "links"]
}`)

var compiledSchema = mustCompile(Schema)

func mustCompile(raw json.RawMessage) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(err)
	}
	return s
}

// Validate returns one message per schema violation of doc.
func Validate(doc any) []string {
	res, err := compiledSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []string{err.Error()}
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return msgs
}
