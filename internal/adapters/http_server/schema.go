package httpserver

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"hotel_management/internal/domain"
)

// Request body schemas. Field presence and JSON types are checked here;
// business rules live in the app layer.
var (
	hotelSchema = mustSchema(`{
		"type": "object",
		"required": ["hotelName"],
		"properties": {
			"hotelName":     {"type": "string", "minLength": 1},
			"description":   {"type": "string"},
			"starRating":    {"type": "integer"},
			"startingPrice": {"type": "number"}
		}
	}`)
	branchSchema = mustSchema(`{
		"type": "object",
		"required": ["branchName"],
		"properties": {
			"hotelId":    {"type": "string"},
			"branchName": {"type": "string", "minLength": 1},
			"branchType": {"type": "string"},
			"roomCount":  {"type": "integer"}
		}
	}`)
	addressSchema = mustSchema(`{
		"type": "object",
		"required": ["addressLine"],
		"properties": {
			"branchId":    {"type": "string"},
			"addressLine": {"type": "string", "minLength": 1},
			"city":        {"type": "string"},
			"country":     {"type": "string"},
			"latitude":    {"type": "number"},
			"longitude":   {"type": "number"}
		}
	}`)
	roomSchema = mustSchema(`{
		"type": "object",
		"required": ["roomNumber"],
		"properties": {
			"branchId":    {"type": "string"},
			"roomNumber":  {"type": "string", "minLength": 1},
			"roomType":    {"type": "string"},
			"bedCount":    {"type": "integer"},
			"price":       {"type": "number"},
			"isAvailable": {"type": "boolean"}
		}
	}`)
	facilitySchema = mustSchema(`{
		"type": "object",
		"required": ["name"],
		"properties": {
			"roomId": {"type": "string"},
			"name":   {"type": "string", "minLength": 1}
		}
	}`)
)

func mustSchema(s string) *gojsonschema.Schema {
	sc, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return sc
}

// decodeBody validates the request body against schema and decodes it into dst.
func decodeBody(body io.Reader, schema *gojsonschema.Schema, dst any) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return domain.Invalid("Failed to read request body")
	}
	if len(raw) == 0 {
		return domain.Invalid("Request body is required")
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return domain.Invalid("Malformed JSON body")
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return domain.Invalid("%s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.Invalid("Malformed JSON body")
	}
	return nil
}
