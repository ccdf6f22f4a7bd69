package l3phases

import (
	"encoding/json"
	"math"
	"time"
)

// Type guards validate loosely typed payloads (JSON decoded into any) at
// trust boundaries such as webhooks or persisted state. They return false
// rather than an error so callers can drop invalid payloads directly.
// The analysis hot path works on typed values and does not use them.

// IsFormError reports whether v is a fully shaped form error: a FormError
// value or a JSON object with string type, message, a known severity and
// an RFC 3339 timestamp.
func IsFormError(v any) bool {
	switch fe := v.(type) {
	case FormError:
		return fe.Type != "" && fe.Severity.Valid() && !fe.Timestamp.IsZero()
	case *FormError:
		return fe != nil && IsFormError(*fe)
	case map[string]any:
		typ, ok := fe["type"].(string)
		if !ok || typ == "" {
			return false
		}
		if _, ok := fe["message"].(string); !ok {
			return false
		}
		sev, ok := fe["severity"].(string)
		if !ok || !Severity(sev).Valid() {
			return false
		}
		ts, ok := fe["timestamp"].(string)
		if !ok {
			return false
		}
		_, err := time.Parse(time.RFC3339Nano, ts)
		return err == nil
	}
	return false
}

// IsFormAnalysis reports whether v is a fully shaped analysis result: an
// AnalysisResult value or a JSON object carrying phase, rep_incremented,
// is_correct, rep_count, form_score and an errors array of form errors.
func IsFormAnalysis(v any) bool {
	switch r := v.(type) {
	case AnalysisResult:
		if r.Phase == "" || r.RepCount < 0 || r.FormScore < 0 || r.FormScore > 100 {
			return false
		}
		for _, fe := range r.Errors {
			if !IsFormError(fe) {
				return false
			}
		}
		return true
	case *AnalysisResult:
		return r != nil && IsFormAnalysis(*r)
	case map[string]any:
		phase, ok := r["phase"].(string)
		if !ok || phase == "" {
			return false
		}
		if _, ok := r["rep_incremented"].(bool); !ok {
			return false
		}
		if _, ok := r["is_correct"].(bool); !ok {
			return false
		}
		if n, ok := r["rep_count"].(float64); !ok || !isWhole(n) || n < 0 {
			return false
		}
		if n, ok := r["form_score"].(float64); !ok || !isWhole(n) || n < 0 || n > 100 {
			return false
		}
		errs, ok := r["errors"].([]any)
		if !ok {
			return false
		}
		for _, fe := range errs {
			if !IsFormError(fe) {
				return false
			}
		}
		return true
	}
	return false
}

func isWhole(n float64) bool {
	return !math.IsInf(n, 0) && n == math.Trunc(n)
}

// DecodeFormError decodes a JSON form error, reporting false for any
// payload that does not pass IsFormError.
func DecodeFormError(data []byte) (FormError, bool) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil || !IsFormError(raw) {
		return FormError{}, false
	}
	var fe FormError
	if err := json.Unmarshal(data, &fe); err != nil {
		return FormError{}, false
	}
	return fe, true
}

// DecodeAnalysis decodes a JSON analysis result, reporting false for any
// payload that does not pass IsFormAnalysis.
func DecodeAnalysis(data []byte) (AnalysisResult, bool) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil || !IsFormAnalysis(raw) {
		return AnalysisResult{}, false
	}
	var r AnalysisResult
	if err := json.Unmarshal(data, &r); err != nil {
		return AnalysisResult{}, false
	}
	return r, true
}
