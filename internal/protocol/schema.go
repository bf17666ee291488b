package protocol

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// Schema describes every envelope of the catalog as a JSON schema. The root
// is a oneOf over envelopes, each pinning its event name with a const.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	envelopes := make([]*jsonschema.Schema, 0, len(Catalog))
	for _, spec := range Catalog {
		data := reflector.ReflectFromType(reflect.TypeOf(spec.Payload))
		data.Version = ""
		data.ID = ""

		props := jsonschema.NewProperties()
		props.Set("event", &jsonschema.Schema{Type: "string", Const: spec.Name})
		props.Set("data", data)

		envelopes = append(envelopes, &jsonschema.Schema{
			Type:        "object",
			Title:       spec.Name,
			Description: string(spec.Direction) + ": " + spec.Description,
			Properties:  props,
			Required:    []string{"event", "data"},
		})
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "gocollect protocol",
		Description: "Envelopes exchanged over the /ws endpoint. Binary frames use the same field names encoded as msgpack.",
		OneOf:       envelopes,
	}
}
