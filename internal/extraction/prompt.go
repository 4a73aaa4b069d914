package extraction

// extractionInstruction is the fixed instruction sent with every scan.
// Output fields are pinned by the schema below; the model returns nothing else.
const extractionInstruction = `You are a data-entry assistant. The attached document is a scanned ` +
	`student registration form, possibly handwritten. Extract every student record you can read ` +
	`and return them as JSON matching the provided schema. Use an empty string for any field you ` +
	`cannot read. Return an empty array if no student records are present. Do not invent data.`

// extractionSchema is the structured-output schema: an array of student rows
// with exactly five fields.
const extractionSchema = `{
  "type": "object",
  "properties": {
    "students": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "school": {"type": "string"},
          "grade": {"type": "string"},
          "contactNumber": {"type": "string"},
          "email": {"type": "string"}
        },
        "required": ["name", "school", "grade", "contactNumber", "email"],
        "additionalProperties": false
      }
    }
  },
  "required": ["students"],
  "additionalProperties": false
}`

// StudentRow is one extracted record.
type StudentRow struct {
	Name          string `json:"name"`
	School        string `json:"school"`
	Grade         string `json:"grade"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
}
