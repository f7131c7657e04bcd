package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExtractionFields is the closed set of keys every structured-extraction
// result carries, in report order. *_NARRATIVE fields hold free-text prose
// that the report generator expands into full sections.
var ExtractionFields = []string{
	"INSURED_NAME", "INSURED_H_STREET", "INSURED_H_CITY", "INSURED_H_STATE",
	"INSURED_H_ZIP", "DATE_LOSS", "DATE_INSPECTED", "DATE_RECEIVED", "TOL_CODE",
	"MORTGAGEE", "MORTGAGE_CO", "CLAIM_NUMBER", "POLICY_NUMBER",
	"DWELLING_DESCRIPTION", "DWELLING_NARRATIVE", "OTHER_STRUCTURES_NARRATIVE",
	"FENCING_NARRATIVE", "CONTENTS_NARRATIVE", "SUPPLEMENT_NARRATIVE",
	"PRIORS_NARRATIVE", "CODE_ITEMS_NARRATIVE", "OP_NARRATIVE", "MICA_NARRATIVE",
	"MORTGAGE_INFO_NARRATIVE", "CAUSE_ORIGIN_NARRATIVE", "SUBROGATION_NARRATIVE",
	"SALVAGE_NARRATIVE",
}

// IsNarrativeField reports whether name is one of the free-prose slots.
func IsNarrativeField(name string) bool {
	return strings.HasSuffix(name, "_NARRATIVE")
}

// CoerceFields maps a decoded extraction payload onto the fixed schema:
// the result contains exactly the ExtractionFields key set; missing or null
// values become empty strings, non-string values are stringified, and keys
// outside the schema are dropped.
func CoerceFields(payload map[string]any) map[string]string {
	cleaned := make(map[string]string, len(ExtractionFields))
	for _, k := range ExtractionFields {
		v, ok := payload[k]
		if !ok || v == nil {
			cleaned[k] = ""
			continue
		}
		cleaned[k] = stringify(v)
	}
	return cleaned
}

// ParseExtraction decodes the raw extraction response body and coerces it
// onto the schema. A body that is not a JSON object is a fatal parse error.
func ParseExtraction(raw []byte) (map[string]string, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	return CoerceFields(payload), nil
}

// MarshalFieldsIndent serializes an extraction mapping as formatted JSON in
// schema order, for inclusion in the report-generation prompt.
func MarshalFieldsIndent(fields map[string]string) []byte {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, k := range ExtractionFields {
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(fields[k])
		buf.WriteString("  ")
		buf.Write(kb)
		buf.WriteString(": ")
		buf.Write(vb)
		if i < len(ExtractionFields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}")
	return buf.Bytes()
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
